package models

// Format identifies the conversion path selected for an uploaded PDF.
type Format string

const (
	// FormatDefault is converted locally by the table reconstructor.
	FormatDefault Format = "default"
	// FormatNeraca is a balance-sheet report, converted by the remote service.
	FormatNeraca Format = "neraca"
)

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// IsRemote reports whether the format is delegated to the remote converter.
func (f Format) IsRemote() bool {
	return f == FormatNeraca
}
