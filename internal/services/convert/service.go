// Package convert selects the conversion path for an uploaded PDF and runs it.
package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/table"
)

// Marker phrases identifying a balance-sheet report by content. Matching is
// case-sensitive.
var neracaMarkers = []string{"Laporan Neraca", "Neraca Per"}

// DetectFormat applies the format rules to a file name and the document's
// plain text. The name is checked first, case-insensitively.
func DetectFormat(filename, text string) models.Format {
	if strings.Contains(strings.ToLower(filename), "neraca") {
		return models.FormatNeraca
	}
	for _, marker := range neracaMarkers {
		if strings.Contains(text, marker) {
			return models.FormatNeraca
		}
	}
	return models.FormatDefault
}

// Service implements interfaces.ConversionService.
type Service struct {
	extractor interfaces.PDFExtractor
	writer    interfaces.SheetWriter
	remote    interfaces.RemoteConverter
	logger    arbor.ILogger
}

var _ interfaces.ConversionService = (*Service)(nil)

func NewService(extractor interfaces.PDFExtractor, writer interfaces.SheetWriter, remote interfaces.RemoteConverter, logger arbor.ILogger) *Service {
	return &Service{
		extractor: extractor,
		writer:    writer,
		remote:    remote,
		logger:    logger,
	}
}

// DetectFormat reads the PDF text only when the name alone does not decide.
// Extraction failures select the default format.
func (s *Service) DetectFormat(ctx context.Context, pdfPath, originalName string) models.Format {
	if format := DetectFormat(originalName, ""); format.IsRemote() {
		return format
	}

	text, err := s.extractor.ExtractText(ctx, pdfPath)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("file", originalName).
			Msg("Text extraction failed during format detection, using default")
		return models.FormatDefault
	}

	return DetectFormat(originalName, text)
}

// Convert runs exactly one conversion path for format and writes the
// workbook to xlsxPath.
func (s *Service) Convert(ctx context.Context, format models.Format, pdfPath, xlsxPath string) (*models.ConversionResult, error) {
	if format.IsRemote() {
		if err := s.remote.ConvertFile(ctx, pdfPath, xlsxPath); err != nil {
			return nil, err
		}
		return &models.ConversionResult{Format: format, OutputPath: xlsxPath}, nil
	}
	return s.convertLocal(ctx, pdfPath, xlsxPath)
}

func (s *Service) convertLocal(ctx context.Context, pdfPath, xlsxPath string) (*models.ConversionResult, error) {
	pages, err := s.extractor.ExtractPages(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	sheet := table.Reconstruct(pages)

	if err := s.writer.WriteSheet(ctx, xlsxPath, sheet); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Debug().
		Int("pages", len(pages)).
		Int("rows", len(sheet)).
		Str("output", xlsxPath).
		Msg("Local conversion complete")

	return &models.ConversionResult{
		Format:     models.FormatDefault,
		OutputPath: xlsxPath,
		Pages:      len(pages),
		Rows:       len(sheet),
	}, nil
}
