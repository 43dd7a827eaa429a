package reconcile

import "github.com/docstruct/tably/internal/ocr"

// expandedTolFactor widens the match window on the retry pass for local
// groups that found no primary row within the strict tolerance.
const expandedTolFactor = 1.5

// RowGroup is a local Y cluster of one non-primary column, placed at the
// true mean Y of its tokens. Primary rows keep first-token anchors; the
// groups matched against them are centered so the comparison is fair.
type RowGroup struct {
	MeanY  float64
	Tokens []ocr.Token
}

// GroupColumnByY clusters a column's tokens into local row groups using the
// same greedy scheme as the primary rows, then records each group's mean Y.
func GroupColumnByY(tokens []ocr.Token, yTolerance float64) []RowGroup {
	clusters := clusterByY(tokens, yTolerance)
	groups := make([]RowGroup, 0, len(clusters))
	for _, c := range clusters {
		sum := 0.0
		for _, t := range c.tokens {
			sum += t.Y
		}
		groups = append(groups, RowGroup{MeanY: sum / float64(len(c.tokens)), Tokens: c.tokens})
	}
	return groups
}

// FillColumnByYMatch reconciles one non-primary column against the primary
// rows in a single pass. Each local row group is matched to the nearest
// primary row within yTolerance, retrying once at 1.5x the tolerance; a
// group with no acceptable row is dropped entirely, contributing no text
// and manufacturing no row. Accepted groups are joined left to right and
// appended into the matched cell, so several groups can accumulate in one
// cell but a group is never split across two rows.
//
// The result has exactly one string per primary row, "" by default.
func FillColumnByYMatch(primaryRows []PrimaryRow, tokens []ocr.Token, yTolerance float64) []string {
	cells := make([]string, len(primaryRows))
	for _, g := range GroupColumnByY(tokens, yTolerance) {
		idx, ok := MatchRow(primaryRows, g.MeanY, yTolerance)
		if !ok {
			continue
		}
		text := joinByX(g.Tokens)
		if text == "" {
			continue
		}
		if cells[idx] == "" {
			cells[idx] = text
		} else {
			cells[idx] += " " + text
		}
	}
	return cells
}

// FillColumnTokensByYMatch is FillColumnByYMatch's token-level counterpart:
// instead of joined text it returns, per primary row, the X-sorted tokens of
// every group matched to that row. Columns whose cells need further
// token-stream processing (fragmented name fields) consume this form.
func FillColumnTokensByYMatch(primaryRows []PrimaryRow, tokens []ocr.Token, yTolerance float64) [][]ocr.Token {
	cells := make([][]ocr.Token, len(primaryRows))
	for _, g := range GroupColumnByY(tokens, yTolerance) {
		idx, ok := MatchRow(primaryRows, g.MeanY, yTolerance)
		if !ok {
			continue
		}
		cells[idx] = append(cells[idx], sortByX(g.Tokens)...)
	}
	return cells
}

// MatchRow finds the primary row nearest to y. The match is accepted within
// the strict tolerance; failing that, a single retry accepts the nearest row
// within the expanded tolerance. The boolean is false when no row qualifies.
func MatchRow(primaryRows []PrimaryRow, y, yTolerance float64) (int, bool) {
	bestIdx := -1
	bestDist := 0.0
	for i, r := range primaryRows {
		d := absDiff(y, r.Y)
		if bestIdx < 0 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	if bestDist <= yTolerance {
		return bestIdx, true
	}
	if bestDist <= expandedTolFactor*yTolerance {
		return bestIdx, true
	}
	return 0, false
}
