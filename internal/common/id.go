package common

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewWorkspaceID generates the random id used to name per-request scratch files.
func NewWorkspaceID() string {
	return uuid.New().String()
}

// IsWorkspaceFile reports whether name is a scratch file named by
// NewWorkspaceID, i.e. "<uuid>.pdf" or "<uuid>.xlsx".
func IsWorkspaceFile(name string) bool {
	ext := filepath.Ext(name)
	if ext != ".pdf" && ext != ".xlsx" {
		return false
	}
	id := strings.TrimSuffix(name, ext)
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
