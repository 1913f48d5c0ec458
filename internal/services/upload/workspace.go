package upload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
)

// Workspace is the pair of scratch files owned by one upload request.
type Workspace struct {
	ID       string
	PDFPath  string
	XLSXPath string
}

// NewWorkspace reserves a fresh workspace in dir, creating dir if needed.
// No files are created yet.
func NewWorkspace(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	id := common.NewWorkspaceID()
	return &Workspace{
		ID:       id,
		PDFPath:  filepath.Join(dir, id+".pdf"),
		XLSXPath: filepath.Join(dir, id+".xlsx"),
	}, nil
}

// Cleanup removes both scratch files. Files that were never written are not
// an error.
func (w *Workspace) Cleanup() error {
	return multierr.Combine(
		removeIfExists(w.PDFPath),
		removeIfExists(w.XLSXPath),
	)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
