// -----------------------------------------------------------------------
// PDF Extractor Service - positioned text runs from PDF pages
// Uses ledongthuc/pdf for text decoding and pdfcpu for document metadata
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// pointsPerUnit converts PDF points into the 1/16 inch page units the table
// reconstructor quantizes on.
const pointsPerUnit = 16.0

// defaultPageHeight is A4 in points, used when a page has no MediaBox.
const defaultPageHeight = 842.0

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// Extractor implements the PDFExtractor interface
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger: logger,
	}
}

// ExtractPages decodes every page into positioned text fragments. Coordinates
// are in page units measured from the top-left corner.
func (e *Extractor) ExtractPages(ctx context.Context, path string) (_ []models.Page, err error) {
	f, reader, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	// The page tree lookups panic on broken cross references.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	numPages := reader.NumPage()
	pages := make([]models.Page, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			e.logger.Debug().Int("page", i).Msg("Skipping empty page object")
			continue
		}

		glyphs, err := pageGlyphs(page)
		if err != nil {
			return nil, fmt.Errorf("failed to decode page %d: %w", i, err)
		}

		pages = append(pages, models.Page{
			Number:    i,
			Fragments: mergeGlyphs(glyphs, pageHeight(page)),
		})
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", len(pages)).
		Msg("Extracted positioned text")

	return pages, nil
}

// ExtractText returns the plain text of the document.
func (e *Extractor) ExtractText(ctx context.Context, path string) (text string, err error) {
	f, reader, err := lpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to extract text: %v", r)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, plain); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return builder.String(), nil
}

// GetMetadata retrieves PDF metadata without extracting text content.
func (e *Extractor) GetMetadata(ctx context.Context, path string) (*interfaces.PDFMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	metadata := &interfaces.PDFMetadata{
		PageCount:   pdfCtx.PageCount,
		FileSize:    info.Size(),
		IsEncrypted: pdfCtx.Encrypt != nil,
	}

	e.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Bool("encrypted", metadata.IsEncrypted).
		Msg("Extracted PDF metadata")

	return metadata, nil
}

// pageGlyphs returns the glyphs of a page. The decoder panics on malformed
// content streams; that is reported as an error for the page.
func pageGlyphs(page lpdf.Page) (glyphs []lpdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// pageHeight returns the upper y bound of the page MediaBox, walking the
// page tree for inherited boxes.
func pageHeight(page lpdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if top := box.Index(3).Float64(); top > 0 {
				return top
			}
		}
	}
	return defaultPageHeight
}
