// -----------------------------------------------------------------------
// File Storage Interface - remote file/folder CRUD
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"io"

	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// FileStorage is the remote file store converted spreadsheets are uploaded to.
// An empty parent or folder id always means the configured root folder.
type FileStorage interface {
	RootFolderID() string

	// Upload stores content as a new file and returns its id.
	Upload(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error)

	// List returns the non-trashed children of a folder.
	List(ctx context.Context, folderID string) ([]models.DriveItem, error)

	// ListFolders returns only the folders directly under the root folder.
	ListFolders(ctx context.Context) ([]models.Folder, error)

	Metadata(ctx context.Context, fileID string) (*models.FileMetadata, error)

	// Download opens the file content. The caller closes the reader.
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)

	Rename(ctx context.Context, fileID, name string) error
	Move(ctx context.Context, fileID, folderID string) error
	Delete(ctx context.Context, fileID string) error
	CreateFolder(ctx context.Context, name, parentID string) (*models.Folder, error)

	// OpenLink returns the browser link of a file, or "" when it has none.
	OpenLink(ctx context.Context, fileID string) (string, error)
}

// CredentialReporter describes the state of the storage credentials without
// contacting the remote service.
type CredentialReporter interface {
	CredentialStatus() models.CredentialStatus
}
