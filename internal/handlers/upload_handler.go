package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/upload"
)

// multipartMemory is the part of a multipart body kept in memory before
// spilling to disk.
const multipartMemory = 8 << 20

// UploadProcessor runs the conversion pipeline for one upload.
type UploadProcessor interface {
	Process(ctx context.Context, req upload.Request) (*models.UploadResult, error)
}

// UploadHandler handles POST /upload.
type UploadHandler struct {
	processor UploadProcessor
	maxBytes  int64
	responder *Responder
	logger    arbor.ILogger
}

func NewUploadHandler(processor UploadProcessor, maxBytes int64, responder *Responder, logger arbor.ILogger) *UploadHandler {
	return &UploadHandler{
		processor: processor,
		maxBytes:  maxBytes,
		responder: responder,
		logger:    logger,
	}
}

// UploadHandler accepts a multipart body with field "file" and optional
// "folder_id" (form field or query parameter).
func (h *UploadHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	req, cleanup, err := h.parseUpload(r)
	defer cleanup()
	if err != nil {
		h.responder.Error(w, r, err, common.StageParseMultipart)
		return
	}

	result, err := h.processor.Process(r.Context(), req)
	if err != nil {
		h.responder.Error(w, r, err, common.StageInit)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *UploadHandler) parseUpload(r *http.Request) (upload.Request, func(), error) {
	noop := func() {}

	err := r.ParseMultipartForm(multipartMemory)
	if r.MultipartForm != nil {
		form := r.MultipartForm
		noop = func() { form.RemoveAll() }
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return upload.Request{}, noop, &common.StageError{
			Stage:  common.StageParseMultipart,
			Status: http.StatusRequestEntityTooLarge,
			Detail: "File too large",
			Err:    err,
		}
	case errors.Is(err, http.ErrNotMultipart):
		// No multipart body at all: nothing was attached.
		return upload.Request{FolderID: r.URL.Query().Get("folder_id")}, noop, nil
	case err != nil:
		return upload.Request{}, noop, common.NewValidationError(common.StageParseMultipart, "Invalid multipart body")
	}

	req := upload.Request{FolderID: r.PostFormValue("folder_id")}
	if req.FolderID == "" {
		req.FolderID = r.URL.Query().Get("folder_id")
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, noop, nil
	}
	if err != nil {
		return upload.Request{}, noop, common.NewValidationError(common.StageParseMultipart, "Invalid multipart body")
	}

	cleanup := func() {
		file.Close()
		noop()
	}
	req.Filename = header.Filename
	req.ContentType = header.Header.Get("Content-Type")
	req.Content = file

	h.logger.Debug().
		Str("file", header.Filename).
		Int64("size", header.Size).
		Str("folder_id", req.FolderID).
		Msg("Upload received")

	return req, cleanup, nil
}
