package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// FilesHandler exposes file storage operations over HTTP.
type FilesHandler struct {
	storage   interfaces.FileStorage
	responder *Responder
	logger    arbor.ILogger
}

func NewFilesHandler(storage interfaces.FileStorage, responder *Responder, logger arbor.ILogger) *FilesHandler {
	return &FilesHandler{
		storage:   storage,
		responder: responder,
		logger:    logger,
	}
}

// ListHandler handles GET /list?folder_id=
func (h *FilesHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.storage.List(r.Context(), r.URL.Query().Get("folder_id"))
	if err != nil {
		h.responder.Error(w, r, err, common.StageListFiles)
		return
	}

	WriteJSON(w, http.StatusOK, map[string][]models.DriveItem{"items": items})
}

// FoldersOnlyHandler handles GET /folders-only
func (h *FilesHandler) FoldersOnlyHandler(w http.ResponseWriter, r *http.Request) {
	folders, err := h.storage.ListFolders(r.Context())
	if err != nil {
		h.responder.Error(w, r, err, common.StageListFolders)
		return
	}

	WriteJSON(w, http.StatusOK, map[string][]models.Folder{"folders": folders})
}

// DownloadHandler handles GET /download/{id} by streaming the file content.
func (h *FilesHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")

	meta, err := h.storage.Metadata(r.Context(), fileID)
	if err != nil {
		h.responder.Error(w, r, err, common.StageDownload)
		return
	}

	body, err := h.storage.Download(r.Context(), fileID)
	if err != nil {
		h.responder.Error(w, r, err, common.StageDownload)
		return
	}
	defer body.Close()

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", ContentDisposition(meta.Name))
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, body)
	if err != nil {
		// Headers are already sent; the client sees a truncated body.
		h.logger.Error().
			Err(err).
			Str("file_id", fileID).
			Int64("written", n).
			Msg("Download interrupted")
	}
}

// ContentDisposition builds an attachment header for name. Double quotes in
// the name are replaced by single quotes.
func ContentDisposition(name string) string {
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(name, `"`, `'`))
}

// RenameHandler handles PATCH /files/{id}/rename
func (h *FilesHandler) RenameHandler(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeJSON(w, r, &req, common.StageRename); err != nil {
		h.responder.Error(w, r, err, common.StageRename)
		return
	}

	if err := h.storage.Rename(r.Context(), r.PathValue("id"), req.Name); err != nil {
		h.responder.Error(w, r, err, common.StageRename)
		return
	}

	WriteMessage(w, "Renamed")
}

// MoveHandler handles PATCH /files/{id}/move
func (h *FilesHandler) MoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(w, r, &req, common.StageMove); err != nil {
		h.responder.Error(w, r, err, common.StageMove)
		return
	}

	if err := h.storage.Move(r.Context(), r.PathValue("id"), req.FolderID); err != nil {
		h.responder.Error(w, r, err, common.StageMove)
		return
	}

	WriteMessage(w, "Moved")
}

// DeleteHandler handles DELETE /files/{id}
func (h *FilesHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.responder.Error(w, r, err, common.StageDelete)
		return
	}

	WriteMessage(w, "Deleted")
}

// OpenHandler handles GET /files/{id}/open
func (h *FilesHandler) OpenHandler(w http.ResponseWriter, r *http.Request) {
	url, err := h.storage.OpenLink(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err, common.StageOpenLink)
		return
	}
	if url == "" {
		h.responder.Error(w, r, common.NewNotFoundError(common.StageOpenLink, "Open link not available"), common.StageOpenLink)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// CreateFolderHandler handles POST /folders
func (h *FilesHandler) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := decodeJSON(w, r, &req, common.StageCreateFolder); err != nil {
		h.responder.Error(w, r, err, common.StageCreateFolder)
		return
	}

	folder, err := h.storage.CreateFolder(r.Context(), req.Name, req.ParentID)
	if err != nil {
		h.responder.Error(w, r, err, common.StageCreateFolder)
		return
	}

	WriteJSON(w, http.StatusOK, folder)
}
