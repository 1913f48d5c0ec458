package handlers

// RenameRequest is the body of PATCH /files/{id}/rename.
type RenameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *RenameRequest) trim() { trimSpace(&r.Name) }

// MoveRequest is the body of PATCH /files/{id}/move. An empty folder moves
// the file to the root folder.
type MoveRequest struct {
	FolderID string `json:"folder_id"`
}

func (r *MoveRequest) trim() { trimSpace(&r.FolderID) }

// CreateFolderRequest is the body of POST /folders.
type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parent_id"`
}

func (r *CreateFolderRequest) trim() { trimSpace(&r.Name, &r.ParentID) }

// fieldMessages maps failed fields to client messages.
var fieldMessages = map[string]string{
	"RenameRequest.Name":       "Name is required",
	"CreateFolderRequest.Name": "Folder name is required",
}
