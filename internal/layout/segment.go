package layout

import (
	"sort"

	"github.com/docstruct/tably/internal/ocr"
)

// DefaultXThreshold is the horizontal gap, in pixels, beyond which a token
// opens a new column during geometric segmentation.
const DefaultXThreshold = 50.0

// SegmentByGeometry groups tokens into columns by sweeping left to right.
// A token joins the open column while the gap between its left edge and the
// rightmost edge seen in that column stays within xThreshold; a larger gap
// closes the column and opens a new one. The input slice is not modified.
// Columns come back ordered left to right; empty input yields no columns.
func SegmentByGeometry(tokens []ocr.Token, xThreshold float64) []Column {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]ocr.Token, len(tokens))
	copy(sorted, tokens)
	sortTokens(sorted)

	var columns []Column
	open := Column{ReferenceX: sorted[0].X, Tokens: []ocr.Token{sorted[0]}}
	rightEdge := sorted[0].Right()

	for _, tok := range sorted[1:] {
		if tok.X-rightEdge <= xThreshold {
			open.Tokens = append(open.Tokens, tok)
			if tok.X < open.ReferenceX {
				open.ReferenceX = tok.X
			}
			if tok.Right() > rightEdge {
				rightEdge = tok.Right()
			}
			continue
		}
		columns = append(columns, open)
		open = Column{ReferenceX: tok.X, Tokens: []ocr.Token{tok}}
		rightEdge = tok.Right()
	}
	columns = append(columns, open)

	return columns
}

// SegmentByZones collects, for each zone in caller order, every token whose
// bounding box overlaps the zone's pixel rectangle by any nonzero amount.
// Zones are processed independently, so overlapping zones count a token more
// than once. A token outside every zone is dropped from the output entirely.
// A zone that catches nothing still produces its (empty) column so the table
// keeps one column per template entry. Each column's tokens come back in
// canonical left-to-right order, so the output depends only on coordinates,
// never on the order of the input bag.
func SegmentByZones(tokens []ocr.Token, zones []ZoneDef, pageW, pageH float64) []Column {
	columns := make([]Column, 0, len(zones))
	for _, zd := range zones {
		left, top, right, bottom := zd.Zone.Abs(pageW, pageH)
		col := Column{Key: zd.Key, ReferenceX: left}
		for _, tok := range tokens {
			if intersects(tok, left, top, right, bottom) {
				col.Tokens = append(col.Tokens, tok)
			}
		}
		sortTokens(col.Tokens)
		columns = append(columns, col)
	}
	return columns
}

// sortTokens orders tokens left to right, breaking X ties top to bottom.
func sortTokens(tokens []ocr.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].X != tokens[j].X {
			return tokens[i].X < tokens[j].X
		}
		return tokens[i].Y < tokens[j].Y
	})
}

// intersects is the standard open rectangle-overlap test: any shared area
// counts, full containment is not required.
func intersects(t ocr.Token, left, top, right, bottom float64) bool {
	return !(t.Right() < left || t.X > right || t.Bottom() < top || t.Y > bottom)
}
