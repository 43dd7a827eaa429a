package reconcile

import (
	"sort"
	"strings"

	"github.com/docstruct/tably/internal/layout"
	"github.com/docstruct/tably/internal/ocr"
)

// PrimaryRow is one canonical row of the output table: the Y anchor that
// opened the row's cluster plus the joined text of the primary column's
// tokens in that cluster. The primary-row list, once built, is the immutable
// backbone of the table; nothing downstream adds or reorders rows.
type PrimaryRow struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// yCluster groups tokens by vertical proximity with a single greedy forward
// scan. Tokens are taken in canonical top-to-bottom order, so each cluster is
// anchored at the Y of its topmost token and the result does not depend on
// input ordering. Later tokens join the first cluster whose anchor is within
// tol. The anchor never moves, so a dense column can drift a cluster away
// from its centroid.
type yCluster struct {
	anchorY float64
	tokens  []ocr.Token
}

func clusterByY(tokens []ocr.Token, tol float64) []yCluster {
	sorted := make([]ocr.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var clusters []yCluster
	for _, tok := range sorted {
		joined := false
		for i := range clusters {
			if absDiff(tok.Y, clusters[i].anchorY) <= tol {
				clusters[i].tokens = append(clusters[i].tokens, tok)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, yCluster{anchorY: tok.Y, tokens: []ocr.Token{tok}})
		}
	}
	return clusters
}

// DetectPrimaryColumn picks the column that defines the table's row set: the
// one with the strictly greatest number of Y clusters at the given tolerance.
// Ties keep the earliest column in the given (left-to-right) order. Returns
// nil for an empty column list, which propagates as an empty table.
func DetectPrimaryColumn(columns []layout.Column, yTolerance float64) *layout.Column {
	var best *layout.Column
	bestCount := -1
	for i := range columns {
		n := len(clusterByY(columns[i].Tokens, yTolerance))
		if n > bestCount {
			best = &columns[i]
			bestCount = n
		}
	}
	return best
}

// BuildPrimaryRows clusters the primary column's tokens by Y, joins each
// cluster's trimmed token texts left to right with single spaces, and
// returns the rows sorted ascending by anchor Y. This list is final; it is
// never recomputed from information discovered while filling other columns.
func BuildPrimaryRows(column *layout.Column, yTolerance float64) []PrimaryRow {
	if column == nil || len(column.Tokens) == 0 {
		return nil
	}
	clusters := clusterByY(column.Tokens, yTolerance)
	rows := make([]PrimaryRow, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, PrimaryRow{Y: c.anchorY, Text: joinByX(c.tokens)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y < rows[j].Y })
	return rows
}

// PrimaryRowTokens returns the X-sorted token list of every primary-row
// cluster, in the same ascending-Y order as BuildPrimaryRows. Callers that
// post-process primary cells at the token level (fragmented name fields)
// use this instead of the pre-joined text.
func PrimaryRowTokens(column *layout.Column, yTolerance float64) [][]ocr.Token {
	if column == nil || len(column.Tokens) == 0 {
		return nil
	}
	clusters := clusterByY(column.Tokens, yTolerance)
	sort.SliceStable(clusters, func(i, j int) bool { return clusters[i].anchorY < clusters[j].anchorY })
	groups := make([][]ocr.Token, len(clusters))
	for i, c := range clusters {
		groups[i] = sortByX(c.tokens)
	}
	return groups
}

// joinByX sorts a row cluster's tokens by X, trims each text, and joins the
// non-empty pieces with single spaces.
func joinByX(tokens []ocr.Token) string {
	sorted := make([]ocr.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	parts := make([]string, 0, len(sorted))
	for _, t := range sorted {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// sortByX returns a copy of tokens ordered left to right.
func sortByX(tokens []ocr.Token) []ocr.Token {
	sorted := make([]ocr.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return sorted
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
