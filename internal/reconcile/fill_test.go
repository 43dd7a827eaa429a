package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/testutil"
)

func threeRows() []PrimaryRow {
	return []PrimaryRow{{Y: 100, Text: "1"}, {Y: 200, Text: "2"}, {Y: 300, Text: "3"}}
}

func TestFillColumnByYMatch_NearbyTokenLands(t *testing.T) {
	cells := FillColumnByYMatch(threeRows(), []ocr.Token{testutil.Tok("v", 300, 205)}, 10)
	require.Len(t, cells, 3)
	assert.Equal(t, []string{"", "v", ""}, cells)
}

func TestFillColumnByYMatch_ExpandedToleranceRetry(t *testing.T) {
	// 213 is 13 off row 200: outside the strict tolerance of 10, inside
	// the expanded 15.
	cells := FillColumnByYMatch(threeRows(), []ocr.Token{testutil.Tok("v", 300, 213)}, 10)
	assert.Equal(t, []string{"", "v", ""}, cells)
}

func TestFillColumnByYMatch_UnmatchedGroupDropped(t *testing.T) {
	cells := FillColumnByYMatch(threeRows(), []ocr.Token{testutil.Tok("lost", 300, 500)}, 10)
	assert.Equal(t, []string{"", "", ""}, cells)
}

func TestFillColumnByYMatch_GroupJoinedByX(t *testing.T) {
	tokens := []ocr.Token{
		testutil.Tok("world", 400, 101),
		testutil.Tok("hello", 300, 99),
	}
	cells := FillColumnByYMatch(threeRows(), tokens, 10)
	assert.Equal(t, "hello world", cells[0])
}

func TestFillColumnByYMatch_MultipleGroupsAccumulate(t *testing.T) {
	// Two local groups both nearest to row 100 end up appended into the
	// same cell rather than spilling into row 200.
	tokens := []ocr.Token{
		testutil.Tok("first", 300, 100),
		testutil.Tok("second", 300, 112),
	}
	cells := FillColumnByYMatch(threeRows(), tokens, 10)
	assert.Equal(t, "first second", cells[0])
	assert.Equal(t, "", cells[1])
}

func TestFillColumnByYMatch_NegativeToleranceFailsAllMatches(t *testing.T) {
	cells := FillColumnByYMatch(threeRows(), []ocr.Token{testutil.Tok("v", 300, 200)}, -1)
	assert.Equal(t, []string{"", "", ""}, cells)
}

func TestFillColumnByYMatch_NoRows(t *testing.T) {
	cells := FillColumnByYMatch(nil, []ocr.Token{testutil.Tok("v", 300, 200)}, 10)
	assert.Empty(t, cells)
}

func TestGroupColumnByY_MeanY(t *testing.T) {
	groups := GroupColumnByY([]ocr.Token{
		testutil.Tok("a", 300, 100),
		testutil.Tok("b", 360, 108),
	}, 10)
	require.Len(t, groups, 1)
	assert.InDelta(t, 104, groups[0].MeanY, 1e-9)
}

func TestFillColumnTokensByYMatch_SortedPerRow(t *testing.T) {
	tokens := []ocr.Token{
		testutil.Tok("ใจดี", 420, 205),
		testutil.Tok("นายสมชาย", 300, 203),
	}
	groups := FillColumnTokensByYMatch(threeRows(), tokens, 10)
	require.Len(t, groups, 3)
	assert.Empty(t, groups[0])
	require.Len(t, groups[1], 2)
	assert.Equal(t, "นายสมชาย", groups[1][0].Text)
}

func TestMatchRow_Distances(t *testing.T) {
	rows := threeRows()

	idx, ok := MatchRow(rows, 104, 10)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = MatchRow(rows, 214, 10)
	require.True(t, ok, "expanded tolerance should accept 14px")
	assert.Equal(t, 1, idx)

	_, ok = MatchRow(rows, 316, 10)
	assert.False(t, ok, "16px exceeds expanded tolerance")

	_, ok = MatchRow(nil, 100, 10)
	assert.False(t, ok)
}
