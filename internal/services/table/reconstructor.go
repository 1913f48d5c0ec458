// Package table rebuilds spreadsheet rows from positioned PDF text fragments.
//
// Fragments are bucketed into rows by their quantized vertical position and
// ordered left to right inside each row. Nothing else is inferred: there is no
// column alignment, cell merging or header detection.
package table

import (
	"cmp"
	"math"
	"slices"

	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// RowKey quantizes y to tenths of a page unit. Halves round toward positive
// infinity, so 0.25 and 0.2 land in different rows while 1.00 and 1.04 share one.
func RowKey(y float64) int64 {
	return int64(math.Floor(y*10 + 0.5))
}

type cell struct {
	x    float64
	text string
}

// ReconstructPage groups the fragments of one page into rows. Rows are ordered
// top to bottom by row key and cells left to right by x. The result does not
// depend on the order of the input.
func ReconstructPage(fragments []models.TextFragment) []models.Row {
	if len(fragments) == 0 {
		return nil
	}

	buckets := make(map[int64][]cell)
	for _, f := range fragments {
		key := RowKey(f.Y)
		buckets[key] = append(buckets[key], cell{x: f.X, text: f.Text})
	}

	keys := make([]int64, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	rows := make([]models.Row, 0, len(keys))
	for _, key := range keys {
		cells := buckets[key]
		// Equal x is broken by text so identical input sets give identical rows.
		slices.SortFunc(cells, func(a, b cell) int {
			if c := cmp.Compare(a.x, b.x); c != 0 {
				return c
			}
			return cmp.Compare(a.text, b.text)
		})

		row := make(models.Row, len(cells))
		for i, c := range cells {
			row[i] = c.text
		}
		rows = append(rows, row)
	}

	return rows
}

// AssembleSheet concatenates page results into one sheet, inserting a single
// empty row between consecutive pages.
func AssembleSheet(pages [][]models.Row) models.Sheet {
	var sheet models.Sheet
	for i, rows := range pages {
		if i > 0 {
			sheet = append(sheet, models.Row{})
		}
		sheet = append(sheet, rows...)
	}
	return sheet
}

// Reconstruct runs ReconstructPage over every page and assembles the result.
func Reconstruct(pages []models.Page) models.Sheet {
	results := make([][]models.Row, 0, len(pages))
	for _, page := range pages {
		results = append(results, ReconstructPage(page.Fragments))
	}
	return AssembleSheet(results)
}
