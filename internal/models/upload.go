package models

// UploadResult is returned to the client after a successful conversion and upload.
type UploadResult struct {
	Message      string `json:"message"`
	ExcelDriveID string `json:"excel_drive_id"`
	Format       Format `json:"format"`
}

// ConversionResult describes a finished local or remote conversion.
type ConversionResult struct {
	Format     Format `json:"format"`
	OutputPath string `json:"output_path"`
	Pages      int    `json:"pages"`
	Rows       int    `json:"rows"`
}
