// -----------------------------------------------------------------------
// PDF Extractor Interface - positioned text and metadata from PDF files
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	PageCount   int   `json:"page_count"`
	FileSize    int64 `json:"file_size"`
	IsEncrypted bool  `json:"is_encrypted"`
}

// PDFExtractor reads text from PDF files on local disk.
type PDFExtractor interface {
	// ExtractPages returns the positioned text fragments of every page,
	// in page order.
	ExtractPages(ctx context.Context, path string) ([]models.Page, error)

	// ExtractText returns the plain text of the whole document. It is used
	// for marker phrase detection only and carries no layout.
	ExtractText(ctx context.Context, path string) (string, error)

	// GetMetadata retrieves PDF metadata without extracting text content.
	GetMetadata(ctx context.Context, path string) (*PDFMetadata, error)
}

// SheetWriter persists reconstructed rows as a spreadsheet file.
type SheetWriter interface {
	WriteSheet(ctx context.Context, path string, sheet models.Sheet) error
}

// RemoteConverter converts a PDF on disk into an xlsx on disk through an
// external service.
type RemoteConverter interface {
	ConvertFile(ctx context.Context, pdfPath, xlsxPath string) error
}

// ConversionService selects a conversion path for a PDF and runs it.
type ConversionService interface {
	// DetectFormat never fails; unreadable files fall back to the default format.
	DetectFormat(ctx context.Context, pdfPath, originalName string) models.Format

	Convert(ctx context.Context, format models.Format, pdfPath, xlsxPath string) (*models.ConversionResult, error)
}
