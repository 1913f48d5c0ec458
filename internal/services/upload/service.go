// Package upload runs the receive, convert and store pipeline for one
// uploaded PDF.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// Request is a received upload. Content is read exactly once.
type Request struct {
	Filename    string
	ContentType string
	Content     io.Reader
	FolderID    string
}

// PDFInspector reports document metadata. Inspection is informational only.
type PDFInspector interface {
	GetMetadata(ctx context.Context, path string) (*interfaces.PDFMetadata, error)
}

type Service struct {
	converter interfaces.ConversionService
	storage   interfaces.FileStorage
	inspector PDFInspector
	uploadDir string
	logger    arbor.ILogger
}

// NewService builds the pipeline. inspector may be nil.
func NewService(converter interfaces.ConversionService, storage interfaces.FileStorage, inspector PDFInspector, uploadDir string, logger arbor.ILogger) *Service {
	return &Service{
		converter: converter,
		storage:   storage,
		inspector: inspector,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Process converts the uploaded PDF and stores the workbook. Every returned
// error is a *common.StageError. Scratch files are removed on every path.
func (s *Service) Process(ctx context.Context, req Request) (*models.UploadResult, error) {
	start := time.Now()

	if req.Content == nil || req.Filename == "" {
		return nil, common.NewValidationError(common.StageParseMultipart, "File is required")
	}
	head, content := peekHead(req.Content)
	if !IsPDF(req.Filename, req.ContentType, head) {
		return nil, common.NewValidationError(common.StageParseMultipart, "Only PDF allowed")
	}

	ws, err := NewWorkspace(s.uploadDir)
	if err != nil {
		return nil, common.NewStageError(common.StagePrepareFiles, err)
	}
	defer s.cleanup(ws)
	excelName := common.SafeFilename(req.Filename) + ".xlsx"

	if err := writeFile(ws.PDFPath, content); err != nil {
		return nil, common.NewStageError(common.StageWritePDF, err)
	}
	s.inspect(ctx, ws.PDFPath, req.Filename)

	format := s.converter.DetectFormat(ctx, ws.PDFPath, req.Filename)

	stage := ConvertStage(format)
	result, err := s.converter.Convert(ctx, format, ws.PDFPath, ws.XLSXPath)
	if err != nil {
		return nil, common.NewStageError(stage, err)
	}

	driveID, err := s.uploadWorkbook(ctx, ws.XLSXPath, excelName, req.FolderID)
	if err != nil {
		return nil, common.NewStageError(common.StageUploadDrive, err)
	}

	s.logger.Info().
		Str("workspace", ws.ID).
		Str("file", req.Filename).
		Str("format", format.String()).
		Int("rows", result.Rows).
		Str("drive_id", driveID).
		Dur("duration", time.Since(start)).
		Msg("Upload converted and stored")

	return &models.UploadResult{
		Message:      "Success",
		ExcelDriveID: driveID,
		Format:       format,
	}, nil
}

// ConvertStage names the stage of a conversion path.
func ConvertStage(format models.Format) string {
	if format.IsRemote() {
		return common.StageConvertNeraca
	}
	return common.StageConvertDefault
}

func (s *Service) uploadWorkbook(ctx context.Context, path, name, folderID string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return s.storage.Upload(ctx, name, XLSXMimeType, folderID, f)
}

func (s *Service) inspect(ctx context.Context, path, name string) {
	if s.inspector == nil {
		return
	}
	meta, err := s.inspector.GetMetadata(ctx, path)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("PDF inspection failed")
		return
	}
	s.logger.Debug().
		Str("file", name).
		Int("pages", meta.PageCount).
		Int64("size", meta.FileSize).
		Bool("encrypted", meta.IsEncrypted).
		Msg("PDF received")
}

func (s *Service) cleanup(ws *Workspace) {
	if err := ws.Cleanup(); err != nil {
		s.logger.Warn().
			Err(err).
			Str("stage", common.StageCleanup).
			Str("workspace", ws.ID).
			Msg("Failed to remove scratch files")
	}
}

func writeFile(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
