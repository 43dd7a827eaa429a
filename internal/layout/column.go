package layout

import "github.com/docstruct/tably/internal/ocr"

// Column is a left-to-right ordered group of tokens that share a vertical
// band of the page, produced either by geometric sweeping or by zone
// membership. Key is empty for geometry-derived columns and carries the
// zone identifier for zone-derived ones.
type Column struct {
	Key        string
	ReferenceX float64
	Tokens     []ocr.Token
}

// Empty reports whether the column holds no tokens.
func (c *Column) Empty() bool { return len(c.Tokens) == 0 }

// Zone is a rectangle expressed in page fractions; every component lies in
// [0,1]. Zones convert to absolute pixels against a concrete page size
// before any geometric test.
type Zone struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Abs converts the fractional zone to absolute pixel coordinates for a page
// of the given size. Returns left, top, right, bottom.
func (z Zone) Abs(pageW, pageH float64) (left, top, right, bottom float64) {
	left = z.X * pageW
	top = z.Y * pageH
	right = (z.X + z.W) * pageW
	bottom = (z.Y + z.H) * pageH
	return left, top, right, bottom
}

// Overlaps reports whether z, taken against the other zone on the same unit
// page, shares any area with it. Used by template validation to warn about
// ambiguous authoring; the segmenter itself never rejects overlap.
func (z Zone) Overlaps(o Zone) bool {
	return !(z.X+z.W <= o.X || o.X+o.W <= z.X || z.Y+z.H <= o.Y || o.Y+o.H <= z.Y)
}

// ZoneDef pairs a zone rectangle with the column key it feeds.
type ZoneDef struct {
	Key  string
	Zone Zone
}
