// Package drive implements file storage on Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"github.com/ternarybob/arbor"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"

// Service implements interfaces.FileStorage against the Drive v3 API.
type Service struct {
	files        *drive.FilesService
	rootFolderID string
	logger       arbor.ILogger
}

var _ interfaces.FileStorage = (*Service)(nil)

// NewService authenticates with creds and builds a Drive client. Extra
// options are appended after the token source.
func NewService(ctx context.Context, creds *Credentials, rootFolderID string, logger arbor.ILogger, opts ...option.ClientOption) (*Service, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return NewServiceFromClient(svc, rootFolderID, logger), nil
}

// NewServiceFromClient wraps an already configured Drive client.
func NewServiceFromClient(svc *drive.Service, rootFolderID string, logger arbor.ILogger) *Service {
	return &Service{
		files:        svc.Files,
		rootFolderID: rootFolderID,
		logger:       logger,
	}
}

func (s *Service) RootFolderID() string {
	return s.rootFolderID
}

func (s *Service) parentOrRoot(id string) string {
	if id == "" {
		return s.rootFolderID
	}
	return id
}

func (s *Service) Upload(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error) {
	file := &drive.File{
		Name:    name,
		Parents: []string{s.parentOrRoot(parentID)},
	}

	var mediaOpts []googleapi.MediaOption
	if mimeType != "" {
		mediaOpts = append(mediaOpts, googleapi.ContentType(mimeType))
	}

	created, err := s.files.Create(file).
		Media(content, mediaOpts...).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	s.logger.Info().
		Str("file_id", created.Id).
		Str("name", name).
		Str("parent", file.Parents[0]).
		Msg("File uploaded to drive")

	return created.Id, nil
}

// List returns every non-trashed child of the folder, following pagination.
func (s *Service) List(ctx context.Context, folderID string) ([]models.DriveItem, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(s.parentOrRoot(folderID)))

	items := []models.DriveItem{}
	err := s.files.List().
		Q(query).
		Fields(listFields).
		Context(ctx).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				items = append(items, toDriveItem(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	return items, nil
}

// ListFolders returns the folders under the root, in natural name order.
func (s *Service) ListFolders(ctx context.Context) ([]models.Folder, error) {
	items, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	folders := []models.Folder{}
	for _, item := range items {
		if item.IsFolder() {
			folders = append(folders, models.Folder{ID: item.ID, Name: item.Name})
		}
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return natural.Less(folders[i].Name, folders[j].Name)
	})

	return folders, nil
}

func (s *Service) Metadata(ctx context.Context, fileID string) (*models.FileMetadata, error) {
	f, err := s.files.Get(fileID).
		Fields("id, name, mimeType, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	return &models.FileMetadata{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
	}, nil
}

func (s *Service) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	return resp.Body, nil
}

func (s *Service) Rename(ctx context.Context, fileID, name string) error {
	_, err := s.files.Update(fileID, &drive.File{Name: name}).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// Move replaces all current parents of the file with folderID.
func (s *Service) Move(ctx context.Context, fileID, folderID string) error {
	current, err := s.files.Get(fileID).
		Fields("parents").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to read parents: %w", err)
	}

	_, err = s.files.Update(fileID, &drive.File{}).
		AddParents(s.parentOrRoot(folderID)).
		RemoveParents(strings.Join(current.Parents, ",")).
		Fields("id, parents").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, fileID string) error {
	if err := s.files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

func (s *Service) CreateFolder(ctx context.Context, name, parentID string) (*models.Folder, error) {
	created, err := s.files.Create(&drive.File{
		Name:     name,
		MimeType: models.FolderMimeType,
		Parents:  []string{s.parentOrRoot(parentID)},
	}).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &models.Folder{ID: created.Id, Name: created.Name}, nil
}

func (s *Service) OpenLink(ctx context.Context, fileID string) (string, error) {
	meta, err := s.Metadata(ctx, fileID)
	if err != nil {
		return "", err
	}
	return meta.WebViewLink, nil
}

func toDriveItem(f *drive.File) models.DriveItem {
	item := models.DriveItem{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
	}
	// Folders and native Google documents carry no size.
	if f.Size > 0 || !strings.HasPrefix(f.MimeType, "application/vnd.google-apps.") {
		item.Size = strconv.FormatInt(f.Size, 10)
	}
	return item
}

// escapeQuery escapes a value for use inside a single-quoted Drive query string.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
