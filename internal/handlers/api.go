package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	models.CredentialStatus
}

type APIHandler struct {
	credentials interfaces.CredentialReporter
	responder   *Responder
	logger      arbor.ILogger
}

func NewAPIHandler(credentials interfaces.CredentialReporter, responder *Responder, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		credentials: credentials,
		responder:   responder,
		logger:      logger,
	}
}

// HealthHandler reports credential presence and readability. It never
// contacts the storage backend.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		Version:          common.GetVersion(),
		CredentialStatus: h.credentials.CredentialStatus(),
	})
}

// NotFoundHandler handles unmatched routes with a JSON 404
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, common.NewNotFoundError(common.StageRoute, "Not found"), common.StageRoute)
}
