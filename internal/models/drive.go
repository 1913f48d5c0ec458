package models

// FolderMimeType is the Drive MIME type of a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// DriveItem is a file or folder as listed from storage.
type DriveItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         string `json:"size,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (d DriveItem) IsFolder() bool {
	return d.MimeType == FolderMimeType
}

// Folder is the reduced shape returned for folder listings and creation.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileMetadata is the subset of storage metadata used for downloads and links.
type FileMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	WebViewLink string `json:"webViewLink,omitempty"`
}

// CredentialStatus is the credential diagnostic returned by the health endpoint.
type CredentialStatus struct {
	Env   CredentialEnv   `json:"env"`
	Files CredentialFiles `json:"files"`
	JSON  CredentialJSON  `json:"json"`
}

type CredentialEnv struct {
	TokenSet  bool `json:"tokenSet"`
	ClientSet bool `json:"clientSet"`
}

type CredentialFiles struct {
	TokenExists  bool  `json:"tokenExists"`
	ClientExists bool  `json:"clientExists"`
	TokenSize    int64 `json:"tokenSize"`
	ClientSize   int64 `json:"clientSize"`
}

type CredentialJSON struct {
	TokenReadable  bool   `json:"tokenReadable"`
	ClientReadable bool   `json:"clientReadable"`
	TokenError     string `json:"tokenError,omitempty"`
	ClientError    string `json:"clientError,omitempty"`
}
