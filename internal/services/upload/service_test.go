package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

const samplePDF = "%PDF-1.4\n%fake body\n"

type mockConverter struct {
	detectCalls  int
	convertCalls int
	DetectFunc   func(ctx context.Context, pdfPath, name string) models.Format
	ConvertFunc  func(ctx context.Context, format models.Format, pdfPath, xlsxPath string) (*models.ConversionResult, error)
}

func (m *mockConverter) DetectFormat(ctx context.Context, pdfPath, name string) models.Format {
	m.detectCalls++
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, pdfPath, name)
	}
	return models.FormatDefault
}

func (m *mockConverter) Convert(ctx context.Context, format models.Format, pdfPath, xlsxPath string) (*models.ConversionResult, error) {
	m.convertCalls++
	if m.ConvertFunc != nil {
		return m.ConvertFunc(ctx, format, pdfPath, xlsxPath)
	}
	if err := os.WriteFile(xlsxPath, []byte("xlsx"), 0600); err != nil {
		return nil, err
	}
	return &models.ConversionResult{Format: format, OutputPath: xlsxPath, Rows: 3}, nil
}

// mockStorage implements only Upload; other methods are unused by the pipeline.
type mockStorage struct {
	interfaces.FileStorage
	UploadFunc func(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error)
}

func (m *mockStorage) Upload(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error) {
	return m.UploadFunc(ctx, name, mimeType, parentID, content)
}

type mockInspector struct {
	err error
}

func (m *mockInspector) GetMetadata(ctx context.Context, path string) (*interfaces.PDFMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &interfaces.PDFMetadata{PageCount: 2}, nil
}

func okStorage() *mockStorage {
	return &mockStorage{UploadFunc: func(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error) {
		io.Copy(io.Discard, content)
		return "drive-1", nil
	}}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files must be removed")
}

func requireStageError(t *testing.T, err error, stage string, status int) *common.StageError {
	t.Helper()
	var se *common.StageError
	require.True(t, errors.As(err, &se), "expected StageError, got %v", err)
	assert.Equal(t, stage, se.Stage)
	assert.Equal(t, status, se.Status)
	return se
}

func TestProcess_Success(t *testing.T) {
	dir := t.TempDir()
	converter := &mockConverter{
		DetectFunc: func(ctx context.Context, pdfPath, name string) models.Format {
			data, err := os.ReadFile(pdfPath)
			require.NoError(t, err)
			assert.Equal(t, samplePDF, string(data))
			return models.FormatNeraca
		},
	}

	var gotName, gotMime, gotParent, gotBody string
	storage := &mockStorage{UploadFunc: func(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error) {
		body, _ := io.ReadAll(content)
		gotName, gotMime, gotParent, gotBody = name, mimeType, parentID, string(body)
		return "xlsx-42", nil
	}}

	svc := NewService(converter, storage, &mockInspector{}, dir, arbor.NewLogger())
	result, err := svc.Process(context.Background(), Request{
		Filename:    "Laporan  Neraca (Mei).pdf",
		ContentType: PDFMimeType,
		Content:     strings.NewReader(samplePDF),
		FolderID:    "folder-7",
	})
	require.NoError(t, err)

	assert.Equal(t, &models.UploadResult{Message: "Success", ExcelDriveID: "xlsx-42", Format: models.FormatNeraca}, result)
	assert.Equal(t, "Laporan Neraca Mei.xlsx", gotName)
	assert.Equal(t, XLSXMimeType, gotMime)
	assert.Equal(t, "folder-7", gotParent)
	assert.Equal(t, "xlsx", gotBody)
	assertEmptyDir(t, dir)
}

func TestProcess_FileRequired(t *testing.T) {
	converter := &mockConverter{}
	svc := NewService(converter, okStorage(), nil, t.TempDir(), arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{Filename: "a.pdf"})
	se := requireStageError(t, err, common.StageParseMultipart, http.StatusBadRequest)
	assert.Equal(t, "File is required", se.Detail)

	_, err = svc.Process(context.Background(), Request{Content: strings.NewReader(samplePDF)})
	requireStageError(t, err, common.StageParseMultipart, http.StatusBadRequest)

	assert.Zero(t, converter.detectCalls)
	assert.Zero(t, converter.convertCalls)
}

func TestProcess_OnlyPDF(t *testing.T) {
	converter := &mockConverter{}
	svc := NewService(converter, okStorage(), nil, t.TempDir(), arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Content:     strings.NewReader("just text"),
	})
	se := requireStageError(t, err, common.StageParseMultipart, http.StatusBadRequest)
	assert.Equal(t, "Only PDF allowed", se.Detail)
	assert.Zero(t, converter.convertCalls)
}

func TestProcess_AcceptsSniffedPDF(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&mockConverter{}, okStorage(), nil, dir, arbor.NewLogger())

	result, err := svc.Process(context.Background(), Request{
		Filename:    "scan",
		ContentType: "application/octet-stream",
		Content:     strings.NewReader(samplePDF),
	})
	require.NoError(t, err)
	assert.Equal(t, models.FormatDefault, result.Format)
	assertEmptyDir(t, dir)
}

func TestProcess_ConvertFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	converter := &mockConverter{
		ConvertFunc: func(ctx context.Context, format models.Format, pdfPath, xlsxPath string) (*models.ConversionResult, error) {
			require.NoError(t, os.WriteFile(xlsxPath, []byte("partial"), 0600))
			return nil, errors.New("failed to parse PDF: bad xref")
		},
	}
	svc := NewService(converter, okStorage(), &mockInspector{err: errors.New("encrypted")}, dir, arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{Filename: "a.pdf", Content: strings.NewReader(samplePDF)})
	se := requireStageError(t, err, common.StageConvertDefault, http.StatusInternalServerError)
	assert.Equal(t, "failed to parse PDF: bad xref", se.Detail)
	assertEmptyDir(t, dir)
}

func TestProcess_RemoteFailureStage(t *testing.T) {
	converter := &mockConverter{
		DetectFunc: func(context.Context, string, string) models.Format { return models.FormatNeraca },
		ConvertFunc: func(context.Context, models.Format, string, string) (*models.ConversionResult, error) {
			return nil, errors.New("PDFCO_API_KEY is not set")
		},
	}
	svc := NewService(converter, okStorage(), nil, t.TempDir(), arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{Filename: "neraca.pdf", Content: strings.NewReader(samplePDF)})
	se := requireStageError(t, err, common.StageConvertNeraca, http.StatusInternalServerError)
	assert.Equal(t, "PDFCO_API_KEY is not set", se.Detail)
}

func TestProcess_UploadFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	storage := &mockStorage{UploadFunc: func(context.Context, string, string, string, io.Reader) (string, error) {
		return "", errors.New("drive unavailable: token missing")
	}}
	svc := NewService(&mockConverter{}, storage, nil, dir, arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{Filename: "a.pdf", Content: strings.NewReader(samplePDF)})
	requireStageError(t, err, common.StageUploadDrive, http.StatusInternalServerError)
	assertEmptyDir(t, dir)
}

func TestProcess_PrepareFailure(t *testing.T) {
	blocker := t.TempDir() + "/file"
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	svc := NewService(&mockConverter{}, okStorage(), nil, blocker+"/sub", arbor.NewLogger())

	_, err := svc.Process(context.Background(), Request{Filename: "a.pdf", Content: strings.NewReader(samplePDF)})
	requireStageError(t, err, common.StagePrepareFiles, http.StatusInternalServerError)
}

func TestConvertStage(t *testing.T) {
	assert.Equal(t, common.StageConvertNeraca, ConvertStage(models.FormatNeraca))
	assert.Equal(t, common.StageConvertDefault, ConvertStage(models.FormatDefault))
}
