package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/testutil"
)

// row lays out the given texts left to right on one line.
func row(texts ...string) []ocr.Token {
	tokens := make([]ocr.Token, 0, len(texts))
	for i, text := range texts {
		tokens = append(tokens, testutil.Tok(text, float64(100+i*130), 50))
	}
	return tokens
}

func TestNormalizeFragmentedNames_MergedFragments(t *testing.T) {
	got := NormalizeFragmentedNames(row("น.", "ส.ยลลดา", "สิงหทอง"))
	require.Len(t, got, 1)
	assert.Equal(t, "น.ส.ยลลดา สิงหทอง", got[0])
}

func TestNormalizeFragmentedNames_EmbeddedPrefixSplitsPeople(t *testing.T) {
	got := NormalizeFragmentedNames(row("นายสมชาย", "ใจดีนางสมหญิง", "ใจงาม"))
	require.Len(t, got, 2)
	assert.Equal(t, "นายสมชาย ใจดี", got[0])
	assert.Equal(t, "นางสมหญิง ใจงาม", got[1])
}

func TestNormalizeFragmentedNames_TwoPeopleSeparateTokens(t *testing.T) {
	got := NormalizeFragmentedNames(row("นายสมชาย", "ใจดี", "นางสมหญิง", "ใจงาม"))
	require.Len(t, got, 2)
	assert.Equal(t, "นายสมชาย ใจดี", got[0])
	assert.Equal(t, "นางสมหญิง ใจงาม", got[1])
}

func TestNormalizeFragmentedNames_ExtraPartsConcatenated(t *testing.T) {
	got := NormalizeFragmentedNames(row("นายสมชาย", "ใจ", "ดี", "มาก"))
	require.Len(t, got, 1)
	assert.Equal(t, "นายสมชาย ใจ"+"ดีมาก", got[0])
}

func TestNormalizeFragmentedNames_LongSinglePartSplit(t *testing.T) {
	// 18 runes after the title, split at the midpoint.
	got := NormalizeFragmentedNames(row("นายสมชายใจดีสมชายใจดี"))
	require.Len(t, got, 1)
	assert.Equal(t, "นายสมชายใจดี "+"สมชายใจดี", got[0])
}

func TestNormalizeFragmentedNames_LongSinglePartSplitClamped(t *testing.T) {
	// 13 runes: the midpoint 6 already sits inside the clamp [6, 7].
	got := NormalizeFragmentedNames(row("นางกกกกกกกกกกกกก"))
	require.Len(t, got, 1)
	assert.Equal(t, "นางกกกกกก "+"กกกกกกก", got[0])
}

func TestNormalizeFragmentedNames_ShortSinglePartKept(t *testing.T) {
	got := NormalizeFragmentedNames(row("นายสมชาย"))
	require.Len(t, got, 1)
	assert.Equal(t, "นายสมชาย", got[0])
}

func TestNormalizeFragmentedNames_PrefixAlone(t *testing.T) {
	got := NormalizeFragmentedNames(row("นาง"))
	require.Len(t, got, 1)
	assert.Equal(t, "นาง", got[0])
}

func TestNormalizeFragmentedNames_LeadingNoiseDiscarded(t *testing.T) {
	got := NormalizeFragmentedNames(row("ลำดับ", "ชื่อ", "นายสมชาย", "ใจดี"))
	require.Len(t, got, 1)
	assert.Equal(t, "นายสมชาย ใจดี", got[0])
}

func TestNormalizeFragmentedNames_NoPrefixNoOutput(t *testing.T) {
	assert.Empty(t, NormalizeFragmentedNames(row("สมชาย", "ใจดี")))
}

func TestNormalizeFragmentedNames_Empty(t *testing.T) {
	assert.Empty(t, NormalizeFragmentedNames(nil))
}

func TestSplitLongPart(t *testing.T) {
	assert.Equal(t, "1234567890", splitLongPart("1234567890"))
	assert.Equal(t, "123456 7890123", splitLongPart("1234567890123"))
}

func TestMatchPrefix_LongestFirst(t *testing.T) {
	// "นางสาว" must win over its own prefix "นาง".
	prefix, rest, ok := MatchPrefix("นางสาวสมหญิง")
	require.True(t, ok)
	assert.Equal(t, "นางสาว", prefix)
	assert.Equal(t, "สมหญิง", rest)
}

func TestMatchPrefix_NoMatch(t *testing.T) {
	_, _, ok := MatchPrefix("สมชาย")
	assert.False(t, ok)
}

func TestFindEmbeddedPrefix_Leftmost(t *testing.T) {
	// Two fused records: the split must land at the first title boundary
	// ("นาย"), not at whichever title happens to sit earlier in the table.
	text := "ใจดี" + "นายสมปอง" + "เด็กชายสมหมาย"
	off, prefix, ok := findEmbeddedPrefix(text)
	require.True(t, ok)
	assert.Equal(t, "นาย", prefix)
	assert.Equal(t, len("ใจดี"), off)
}

func TestFindEmbeddedPrefix_LeadingTitleIgnored(t *testing.T) {
	// A title at offset zero is the token's own, not an embedded record.
	off, prefix, ok := findEmbeddedPrefix("นายสมชาย" + "นางสมหญิง")
	require.True(t, ok)
	assert.Equal(t, "นาง", prefix)
	assert.Equal(t, len("นายสมชาย"), off)
}
