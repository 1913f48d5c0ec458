package pdf

import (
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// Gap thresholds, as fractions of the font size.
const (
	baselineTolerance = 0.2  // glyphs within this vertical distance share a baseline
	spaceGap          = 0.2  // a gap wider than this inserts a space
	splitGap          = 1.0  // a gap wider than this starts a new fragment
	unknownAdvance    = 1.1  // max step between glyph origins when widths are unknown
	overlapTolerance  = 0.25 // backward steps up to this size still continue a run
)

type run struct {
	font     string
	size     float64
	x, y     float64 // origin of the first glyph, in points, y bottom-up
	lastX    float64
	lastW    float64
	text     strings.Builder
	hasSpace bool // text ends with a space
}

// continues reports whether g extends the run, and whether a space must be
// inserted before it.
func (r *run) continues(g lpdf.Text) (ok, space bool) {
	if g.Font != r.font || g.FontSize != r.size {
		return false, false
	}
	size := r.size
	if size <= 0 {
		size = 1
	}
	if math.Abs(g.Y-r.y) > baselineTolerance*size {
		return false, false
	}

	if r.lastW <= 0 {
		step := g.X - r.lastX
		return step >= -overlapTolerance*size && step <= unknownAdvance*size, false
	}

	gap := g.X - (r.lastX + r.lastW)
	switch {
	case gap < -overlapTolerance*size:
		return false, false
	case gap > splitGap*size:
		return false, false
	case gap > spaceGap*size:
		return true, true
	default:
		return true, false
	}
}

func (r *run) add(g lpdf.Text, space bool) {
	if space && !r.hasSpace && !strings.HasPrefix(g.S, " ") {
		r.text.WriteByte(' ')
	}
	r.text.WriteString(g.S)
	r.lastX = g.X
	r.lastW = g.W
	r.hasSpace = strings.HasSuffix(g.S, " ")
}

// mergeGlyphs folds per-glyph text, in content stream order, into runs that
// behave like the text items of a layout-preserving PDF parser. Whitespace-only
// runs are dropped. Output coordinates are page units from the top-left.
func mergeGlyphs(glyphs []lpdf.Text, pageTop float64) []models.TextFragment {
	var fragments []models.TextFragment
	var current *run

	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(current.text.String())
		if text != "" {
			fragments = append(fragments, models.TextFragment{
				X:    current.x / pointsPerUnit,
				Y:    (pageTop - current.y) / pointsPerUnit,
				Text: text,
			})
		}
		current = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if current != nil {
			if ok, space := current.continues(g); ok {
				current.add(g, space)
				continue
			}
			flush()
		}
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		current = &run{
			font: g.Font,
			size: g.FontSize,
			x:    g.X,
			y:    g.Y,
		}
		current.add(g, false)
	}
	flush()

	return fragments
}
