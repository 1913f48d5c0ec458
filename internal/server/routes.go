package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes. Paths are matched after the route
// prefix has been stripped.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Conversion
	mux.HandleFunc("POST /upload", s.app.UploadHandler.UploadHandler)

	// Storage browsing
	mux.HandleFunc("GET /list", s.app.FilesHandler.ListHandler)
	mux.HandleFunc("GET /folders-only", s.app.FilesHandler.FoldersOnlyHandler)
	mux.HandleFunc("GET /download/{id}", s.app.FilesHandler.DownloadHandler)
	mux.HandleFunc("GET /files/{id}/open", s.app.FilesHandler.OpenHandler)

	// Storage mutations
	mux.HandleFunc("PATCH /files/{id}/rename", s.app.FilesHandler.RenameHandler)
	mux.HandleFunc("PATCH /files/{id}/move", s.app.FilesHandler.MoveHandler)
	mux.HandleFunc("DELETE /files/{id}", s.app.FilesHandler.DeleteHandler)
	mux.HandleFunc("POST /folders", s.app.FilesHandler.CreateFolderHandler)

	// Diagnostics
	mux.HandleFunc("GET /health", s.app.APIHandler.HealthHandler)

	// Everything else, including known paths with the wrong method
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
