package models

import "strings"

// TextFragment is one decoded text run at an absolute page position.
// X grows to the right, Y grows down the page. Units are page units
// (1/16 inch) as produced by the PDF extractor.
type TextFragment struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// NewTextFragment joins the sub-fragments of one logical cell in their
// original order.
func NewTextFragment(x, y float64, parts ...string) TextFragment {
	return TextFragment{
		X:    x,
		Y:    y,
		Text: strings.Join(parts, ""),
	}
}

// Page holds the fragments decoded from a single PDF page.
type Page struct {
	Number    int            `json:"number"` // 1-based
	Fragments []TextFragment `json:"fragments"`
}

// Row is one reconstructed spreadsheet row, cells ordered left to right.
type Row []string

// Sheet is the rows of one output worksheet. Rows may be ragged and may be
// empty (page separators).
type Sheet []Row
