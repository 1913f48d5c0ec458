package pdfco

// PresignResponse is returned by the presigned upload URL endpoint.
type PresignResponse struct {
	PresignedURL string `json:"presignedUrl"`
	URL          string `json:"url"`
	Error        bool   `json:"error"`
	Message      string `json:"message,omitempty"`
}

// ConvertRequest is the body of the PDF to XLSX conversion call.
type ConvertRequest struct {
	URL   string `json:"url"`
	Async bool   `json:"async"`
	Name  string `json:"name"`
}

// ConvertResponse is returned by the conversion endpoint. URL points at the
// converted file.
type ConvertResponse struct {
	URL       string `json:"url"`
	PageCount int    `json:"pageCount,omitempty"`
	Error     bool   `json:"error"`
	Message   string `json:"message,omitempty"`
	Credits   int    `json:"credits,omitempty"`
	Remaining int    `json:"remainingCredits,omitempty"`
}
