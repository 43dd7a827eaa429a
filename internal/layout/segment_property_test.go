package layout

import (
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/docstruct/tably/internal/ocr"
)

// genToken generates a random word token on a 1000x1000 page.
func genToken() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 900),
		gen.Float64Range(0, 900),
	).Map(func(vals []interface{}) ocr.Token {
		x, ok := vals[0].(float64)
		if !ok {
			panic("expected float64")
		}
		y, ok := vals[1].(float64)
		if !ok {
			panic("expected float64")
		}
		return ocr.Token{Text: "w", X: x, Y: y, W: 40, H: 16}
	})
}

func genTokens() gopter.Gen {
	return gen.SliceOfN(30, genToken())
}

// TestSegmentByGeometry_Partition verifies segmentation neither drops nor
// duplicates tokens.
func TestSegmentByGeometry_Partition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("columns partition the input tokens", prop.ForAll(
		func(tokens []ocr.Token) bool {
			cols := SegmentByGeometry(tokens, 50)
			total := 0
			for _, c := range cols {
				total += len(c.Tokens)
			}
			return total == len(tokens)
		},
		genTokens(),
	))

	properties.TestingRun(t)
}

// TestSegmentByGeometry_ColumnsOrdered verifies columns come back sorted by
// reference X and with the claimed minimum left edge.
func TestSegmentByGeometry_ColumnsOrdered(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("columns are left-to-right with true min reference", prop.ForAll(
		func(tokens []ocr.Token) bool {
			cols := SegmentByGeometry(tokens, 50)
			for i, c := range cols {
				if i > 0 && cols[i-1].ReferenceX > c.ReferenceX {
					return false
				}
				minX := c.Tokens[0].X
				for _, tok := range c.Tokens {
					if tok.X < minX {
						minX = tok.X
					}
				}
				if c.ReferenceX != minX {
					return false
				}
			}
			return true
		},
		genTokens(),
	))

	properties.TestingRun(t)
}

// TestSegmentByGeometry_InputOrderIrrelevant verifies output depends only
// on coordinates, not on input ordering.
func TestSegmentByGeometry_InputOrderIrrelevant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sorted and reversed inputs segment identically", prop.ForAll(
		func(tokens []ocr.Token) bool {
			reversed := make([]ocr.Token, len(tokens))
			for i, tok := range tokens {
				reversed[len(tokens)-1-i] = tok
			}
			a := SegmentByGeometry(tokens, 50)
			b := SegmentByGeometry(reversed, 50)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !sameTokenSet(a[i].Tokens, b[i].Tokens) {
					return false
				}
			}
			return true
		},
		genTokens(),
	))

	properties.TestingRun(t)
}

// TestSegmentByZones_InputOrderIrrelevant verifies the zone path is as
// order-blind as the geometric one: the collected columns depend only on
// token coordinates.
func TestSegmentByZones_InputOrderIrrelevant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	zones := []ZoneDef{
		{Key: "left", Zone: Zone{X: 0, Y: 0, W: 0.5, H: 1}},
		{Key: "right", Zone: Zone{X: 0.5, Y: 0, W: 0.5, H: 1}},
	}

	properties.Property("sorted and reversed inputs collect identically", prop.ForAll(
		func(tokens []ocr.Token) bool {
			reversed := make([]ocr.Token, len(tokens))
			for i, tok := range tokens {
				reversed[len(tokens)-1-i] = tok
			}
			a := SegmentByZones(tokens, zones, 1000, 1000)
			b := SegmentByZones(reversed, zones, 1000, 1000)
			return reflect.DeepEqual(a, b)
		},
		genTokens(),
	))

	properties.TestingRun(t)
}

func sameTokenSet(a, b []ocr.Token) bool {
	if len(a) != len(b) {
		return false
	}
	ka := tokenKeys(a)
	kb := tokenKeys(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func tokenKeys(tokens []ocr.Token) []float64 {
	keys := make([]float64, len(tokens))
	for i, tok := range tokens {
		keys[i] = tok.X*1e6 + tok.Y
	}
	sort.Float64s(keys)
	return keys
}
