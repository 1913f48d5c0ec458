package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
)

const maxJSONBodyBytes = 1 << 20

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Stage  string `json:"stage"`
	Stack  string `json:"stack,omitempty"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage writes a 200 {"message": ...} response.
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// Responder converts errors into stage-tagged JSON error responses.
type Responder struct {
	debug  bool
	logger arbor.ILogger
}

// NewResponder creates a responder. With debug set, 5xx responses include
// the captured stack.
func NewResponder(debug bool, logger arbor.ILogger) *Responder {
	return &Responder{debug: debug, logger: logger}
}

// Error writes err. Errors that are not already a *common.StageError are
// reported as a 500 in fallbackStage.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error, fallbackStage string) {
	se := common.AsStageError(err, fallbackStage)

	resp := ErrorResponse{Detail: se.Detail, Stage: se.Stage}
	if se.Status >= http.StatusInternalServerError {
		if rs.debug {
			resp.Stack = se.Stack
		}
		rs.logger.Error().
			Err(err).
			Str("stage", se.Stage).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		rs.logger.Warn().
			Str("stage", se.Stage).
			Str("detail", se.Detail).
			Str("path", r.URL.Path).
			Msg("Request rejected")
	}

	WriteJSON(w, se.Status, resp)
}

// trimmer is implemented by request bodies that normalise their own fields
// before validation.
type trimmer interface {
	trim()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads a JSON request body into dst, trims it and validates it.
// An empty body decodes as {}; trailing data after the first value is
// rejected. The returned error is always a 400 *common.StageError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst trimmer, stage string) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()

	switch err := dec.Decode(dst); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return common.NewValidationError(stage, "Invalid request body")
	default:
		// The body must hold exactly one JSON value.
		if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
			return common.NewValidationError(stage, "Invalid request body")
		}
	}
	dst.trim()

	if err := validate.Struct(dst); err != nil {
		return common.NewValidationError(stage, validationDetail(err))
	}
	return nil
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].StructNamespace()]; ok {
			return msg
		}
		return verrs[0].Field() + " is invalid"
	}
	return "Invalid request body"
}

func trimSpace(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
