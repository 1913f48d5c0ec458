package drive

import (
	"context"
	"fmt"
	"io"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// Unavailable is the storage installed when the Drive client could not be
// built at startup. Every call fails with the original cause.
type Unavailable struct {
	rootFolderID string
	err          error
}

var _ interfaces.FileStorage = (*Unavailable)(nil)

func NewUnavailable(rootFolderID string, cause error) *Unavailable {
	return &Unavailable{
		rootFolderID: rootFolderID,
		err:          fmt.Errorf("drive unavailable: %w", cause),
	}
}

func (u *Unavailable) RootFolderID() string { return u.rootFolderID }

func (u *Unavailable) Upload(context.Context, string, string, string, io.Reader) (string, error) {
	return "", u.err
}

func (u *Unavailable) List(context.Context, string) ([]models.DriveItem, error) {
	return nil, u.err
}

func (u *Unavailable) ListFolders(context.Context) ([]models.Folder, error) {
	return nil, u.err
}

func (u *Unavailable) Metadata(context.Context, string) (*models.FileMetadata, error) {
	return nil, u.err
}

func (u *Unavailable) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, u.err
}

func (u *Unavailable) Rename(context.Context, string, string) error { return u.err }

func (u *Unavailable) Move(context.Context, string, string) error { return u.err }

func (u *Unavailable) Delete(context.Context, string) error { return u.err }

func (u *Unavailable) CreateFolder(context.Context, string, string) (*models.Folder, error) {
	return nil, u.err
}

func (u *Unavailable) OpenLink(context.Context, string) (string, error) {
	return "", u.err
}
