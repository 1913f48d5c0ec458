package common

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

// Stage names reported with every error response.
const (
	StageInit           = "init"
	StageParseMultipart = "parse-multipart"
	StagePrepareFiles   = "prepare-files"
	StageWritePDF       = "write-pdf"
	StageDetectFormat   = "detect-format"
	StageConvertNeraca  = "convert-neraca"
	StageConvertDefault = "convert-default"
	StageUploadDrive    = "upload-drive"
	StageCleanup        = "cleanup"

	StageListFiles    = "list-files"
	StageListFolders  = "list-folders"
	StageDownload     = "download"
	StageRename       = "rename"
	StageMove         = "move"
	StageDelete       = "delete"
	StageOpenLink     = "open-link"
	StageCreateFolder = "create-folder"
	StageHealth       = "health"
	StageRoute        = "route"
	StagePanic        = "panic"
)

// StageError is an error tagged with the request stage it happened in and
// the HTTP status it maps to.
type StageError struct {
	Stage  string
	Status int
	Detail string
	Err    error
	Stack  string
}

func (e *StageError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Detail {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Detail)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as an internal failure (500) of the given stage.
func NewStageError(stage string, err error) *StageError {
	detail := "Internal server error"
	if err != nil {
		detail = err.Error()
	}
	return &StageError{
		Stage:  stage,
		Status: http.StatusInternalServerError,
		Detail: detail,
		Err:    err,
		Stack:  string(debug.Stack()),
	}
}

// NewValidationError reports a client input problem (400).
func NewValidationError(stage, detail string) *StageError {
	return &StageError{
		Stage:  stage,
		Status: http.StatusBadRequest,
		Detail: detail,
		Stack:  string(debug.Stack()),
	}
}

// NewNotFoundError reports a missing resource (404).
func NewNotFoundError(stage, detail string) *StageError {
	return &StageError{
		Stage:  stage,
		Status: http.StatusNotFound,
		Detail: detail,
		Stack:  string(debug.Stack()),
	}
}

// AsStageError returns err as a *StageError, wrapping it as a 500 in
// fallbackStage when it is not one already.
func AsStageError(err error, fallbackStage string) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return NewStageError(fallbackStage, err)
}
