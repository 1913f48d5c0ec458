package upload

import (
	"bufio"
	"io"
	"strings"

	"github.com/h2non/filetype"
)

const (
	PDFMimeType  = "application/pdf"
	XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sniffLen = 262
)

// IsPDF reports whether an upload is accepted as a PDF: by its declared
// content type, by its file name, or by its leading bytes.
func IsPDF(filename, contentType string, head []byte) bool {
	if strings.EqualFold(strings.TrimSpace(contentType), PDFMimeType) {
		return true
	}
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	return filetype.Is(head, "pdf")
}

// peekHead returns the first bytes of r without consuming them from the
// returned reader.
func peekHead(r io.Reader) ([]byte, io.Reader) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	return head, br
}
