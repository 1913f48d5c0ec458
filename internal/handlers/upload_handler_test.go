package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/upload"
)

func multipartBody(t *testing.T, filename, contentType, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadHandler(p UploadProcessor, debug bool) *UploadHandler {
	logger := arbor.NewLogger()
	return NewUploadHandler(p, 10<<20, NewResponder(debug, logger), logger)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestUploadHandler_Success(t *testing.T) {
	var got upload.Request
	var gotContent string
	processor := &mockProcessor{processFunc: func(ctx context.Context, req upload.Request) (*models.UploadResult, error) {
		got = req
		data, _ := io.ReadAll(req.Content)
		gotContent = string(data)
		return &models.UploadResult{Message: "Success", ExcelDriveID: "x1", Format: models.FormatDefault}, nil
	}}

	body, ct := multipartBody(t, "report.pdf", "application/pdf", "%PDF-1.4", map[string]string{"folder_id": "f-form"})
	req := httptest.NewRequest(http.MethodPost, "/upload?folder_id=f-query", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	newUploadHandler(processor, false).UploadHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Success","excel_drive_id":"x1","format":"default"}`, rec.Body.String())
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, "f-form", got.FolderID)
	assert.Equal(t, "%PDF-1.4", gotContent)
}

func TestUploadHandler_FolderFromQuery(t *testing.T) {
	var got upload.Request
	processor := &mockProcessor{processFunc: func(ctx context.Context, req upload.Request) (*models.UploadResult, error) {
		got = req
		return &models.UploadResult{Message: "Success"}, nil
	}}

	body, ct := multipartBody(t, "report.pdf", "application/pdf", "%PDF", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload?folder_id=f-query", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	newUploadHandler(processor, false).UploadHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "f-query", got.FolderID)
}

// convertCounter records whether any conversion path ran.
type convertCounter struct {
	calls int
}

func (c *convertCounter) DetectFormat(context.Context, string, string) models.Format {
	c.calls++
	return models.FormatDefault
}

func (c *convertCounter) Convert(context.Context, models.Format, string, string) (*models.ConversionResult, error) {
	c.calls++
	return nil, errors.New("unexpected")
}

func TestUploadHandler_FileRequired(t *testing.T) {
	counter := &convertCounter{}
	pipeline := upload.NewService(counter, &mockStorage{}, nil, t.TempDir(), arbor.NewLogger())
	handler := newUploadHandler(pipeline, false)

	t.Run("multipart without file", func(t *testing.T) {
		body, ct := multipartBody(t, "", "", "", map[string]string{"folder_id": "f"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		handler.UploadHandler(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "File is required", resp.Detail)
		assert.Equal(t, common.StageParseMultipart, resp.Stage)
	})

	t.Run("no body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		rec := httptest.NewRecorder()

		handler.UploadHandler(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File is required", decodeError(t, rec).Detail)
	})

	assert.Zero(t, counter.calls)
}

func TestUploadHandler_OnlyPDF(t *testing.T) {
	counter := &convertCounter{}
	pipeline := upload.NewService(counter, &mockStorage{}, nil, t.TempDir(), arbor.NewLogger())

	body, ct := multipartBody(t, "notes.txt", "text/plain", "hello", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	newUploadHandler(pipeline, false).UploadHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only PDF allowed", decodeError(t, rec).Detail)
	assert.Zero(t, counter.calls)
}

func TestUploadHandler_MalformedMultipart(t *testing.T) {
	processor := &mockProcessor{}
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()

	newUploadHandler(processor, false).UploadHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, common.StageParseMultipart, resp.Stage)
	assert.Equal(t, "Invalid multipart body", resp.Detail)
	assert.Zero(t, processor.calls)
}

func TestUploadHandler_FileTooLarge(t *testing.T) {
	processor := &mockProcessor{}
	logger := arbor.NewLogger()
	handler := NewUploadHandler(processor, 1<<10, NewResponder(false, logger), logger)

	body, ct := multipartBody(t, "big.pdf", "application/pdf", "%PDF-1.4\n"+strings.Repeat("x", 8<<10), nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, common.StageParseMultipart, resp.Stage)
	assert.Equal(t, "File too large", resp.Detail)
	assert.Zero(t, processor.calls)
}

func TestUploadHandler_StageErrorWithDebugStack(t *testing.T) {
	processor := &mockProcessor{processFunc: func(context.Context, upload.Request) (*models.UploadResult, error) {
		return nil, common.NewStageError(common.StageConvertNeraca, errors.New("PDF.co conversion failed"))
	}}

	for _, debug := range []bool{false, true} {
		body, ct := multipartBody(t, "neraca.pdf", "application/pdf", "%PDF", nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		newUploadHandler(processor, debug).UploadHandler(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "PDF.co conversion failed", resp.Detail)
		assert.Equal(t, common.StageConvertNeraca, resp.Stage)
		if debug {
			assert.NotEmpty(t, resp.Stack)
		} else {
			assert.Empty(t, resp.Stack)
		}
	}
}
