package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/Hamdankim/pelangi-drive-be/internal/models"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/upload"
)

// mockStorage implements interfaces.FileStorage for testing
type mockStorage struct {
	listFunc         func(ctx context.Context, folderID string) ([]models.DriveItem, error)
	listFoldersFunc  func(ctx context.Context) ([]models.Folder, error)
	metadataFunc     func(ctx context.Context, fileID string) (*models.FileMetadata, error)
	downloadFunc     func(ctx context.Context, fileID string) (io.ReadCloser, error)
	renameFunc       func(ctx context.Context, fileID, name string) error
	moveFunc         func(ctx context.Context, fileID, folderID string) error
	deleteFunc       func(ctx context.Context, fileID string) error
	createFolderFunc func(ctx context.Context, name, parentID string) (*models.Folder, error)
	openLinkFunc     func(ctx context.Context, fileID string) (string, error)
}

func (m *mockStorage) RootFolderID() string { return "root" }

func (m *mockStorage) Upload(ctx context.Context, name, mimeType, parentID string, content io.Reader) (string, error) {
	return "", nil
}

func (m *mockStorage) List(ctx context.Context, folderID string) ([]models.DriveItem, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, folderID)
	}
	return []models.DriveItem{}, nil
}

func (m *mockStorage) ListFolders(ctx context.Context) ([]models.Folder, error) {
	if m.listFoldersFunc != nil {
		return m.listFoldersFunc(ctx)
	}
	return []models.Folder{}, nil
}

func (m *mockStorage) Metadata(ctx context.Context, fileID string) (*models.FileMetadata, error) {
	if m.metadataFunc != nil {
		return m.metadataFunc(ctx, fileID)
	}
	return &models.FileMetadata{ID: fileID}, nil
}

func (m *mockStorage) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, fileID)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *mockStorage) Rename(ctx context.Context, fileID, name string) error {
	if m.renameFunc != nil {
		return m.renameFunc(ctx, fileID, name)
	}
	return nil
}

func (m *mockStorage) Move(ctx context.Context, fileID, folderID string) error {
	if m.moveFunc != nil {
		return m.moveFunc(ctx, fileID, folderID)
	}
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, fileID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, fileID)
	}
	return nil
}

func (m *mockStorage) CreateFolder(ctx context.Context, name, parentID string) (*models.Folder, error) {
	if m.createFolderFunc != nil {
		return m.createFolderFunc(ctx, name, parentID)
	}
	return &models.Folder{ID: "new", Name: name}, nil
}

func (m *mockStorage) OpenLink(ctx context.Context, fileID string) (string, error) {
	if m.openLinkFunc != nil {
		return m.openLinkFunc(ctx, fileID)
	}
	return "", nil
}

// mockProcessor implements UploadProcessor for testing
type mockProcessor struct {
	calls       int
	processFunc func(ctx context.Context, req upload.Request) (*models.UploadResult, error)
}

func (m *mockProcessor) Process(ctx context.Context, req upload.Request) (*models.UploadResult, error) {
	m.calls++
	return m.processFunc(ctx, req)
}

type mockCredentials struct {
	status models.CredentialStatus
}

func (m *mockCredentials) CredentialStatus() models.CredentialStatus {
	return m.status
}
