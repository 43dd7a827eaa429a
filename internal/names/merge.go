package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docstruct/tably/internal/ocr"
)

// MergeBrokenPrefixes repairs honorific abbreviations that the recognizer
// split across tokens before the main state machine runs. Two shapes are
// handled, both in a single left-to-right pass:
//
//	["น.", "ส.ยลลดา"]       -> ["น.ส.ยลลดา"]       (second piece carries the name)
//	["น.", "ส.", "ยลลดา"]   -> ["น.ส.ยลลดา"]       (three clean pieces)
//
// The fused token carries the full canonical prefix plus any trailing name
// fragment and the union of the consumed bounding boxes. Token text is
// NFC-normalized and trimmed up front, so fragment matching sees the same
// canonical form the rest of the normalizer works on; tokens that take part
// in no pattern pass through with that canonical text.
func MergeBrokenPrefixes(tokens []ocr.Token) []ocr.Token {
	canon := make([]ocr.Token, len(tokens))
	for i, tok := range tokens {
		tok.Text = norm.NFC.String(strings.TrimSpace(tok.Text))
		canon[i] = tok
	}

	out := make([]ocr.Token, 0, len(canon))
	for i := 0; i < len(canon); {
		merged, consumed := tryMergeAt(canon[i:])
		if consumed > 1 {
			out = append(out, merged)
			i += consumed
			continue
		}
		out = append(out, canon[i])
		i++
	}
	return out
}

// tryMergeAt attempts to fuse a broken abbreviation starting at tokens[0].
// Returns the fused token and the number of tokens consumed; consumed is 1
// when nothing matched.
func tryMergeAt(tokens []ocr.Token) (ocr.Token, int) {
	if len(tokens) < 2 {
		return ocr.Token{}, 1
	}
	first := strings.TrimSpace(tokens[0].Text)
	for _, p := range prefixes {
		frags := dottedFragments(p)
		if len(frags) < 2 || first != frags[0] {
			continue
		}
		if tok, n, ok := mergeFragments(tokens, p, frags); ok {
			return tok, n
		}
	}
	return ocr.Token{}, 1
}

// mergeFragments matches the remaining fragments of prefix p against the
// tokens after the first fragment. The last matched token may carry the
// start of the name fused onto the final fragment.
func mergeFragments(tokens []ocr.Token, p string, frags []string) (ocr.Token, int, bool) {
	consumed := 1
	for fi := 1; fi < len(frags); fi++ {
		if consumed >= len(tokens) {
			return ocr.Token{}, 0, false
		}
		text := strings.TrimSpace(tokens[consumed].Text)
		if fi == len(frags)-1 {
			// Final fragment: an exact match may be followed by a separate
			// name token; a prefix match carries the name tail directly.
			if !strings.HasPrefix(text, frags[fi]) {
				return ocr.Token{}, 0, false
			}
			tail := text[len(frags[fi]):]
			consumed++
			if tail == "" && consumed < len(tokens) {
				next := strings.TrimSpace(tokens[consumed].Text)
				// A following token that is itself a title belongs to the
				// next person, not to this repaired abbreviation.
				if _, _, isPrefix := MatchPrefix(next); !isPrefix {
					tail = next
					consumed++
				}
			}
			return fuseTokens(tokens[:consumed], p+tail), consumed, true
		}
		if text != frags[fi] {
			return ocr.Token{}, 0, false
		}
		consumed++
	}
	return ocr.Token{}, 0, false
}

// fuseTokens builds one token spanning the given tokens' boxes.
func fuseTokens(tokens []ocr.Token, text string) ocr.Token {
	fused := tokens[0]
	fused.Text = text
	right := fused.Right()
	bottom := fused.Bottom()
	for _, t := range tokens[1:] {
		if t.X < fused.X {
			fused.X = t.X
		}
		if t.Y < fused.Y {
			fused.Y = t.Y
		}
		if t.Right() > right {
			right = t.Right()
		}
		if t.Bottom() > bottom {
			bottom = t.Bottom()
		}
	}
	fused.W = right - fused.X
	fused.H = bottom - fused.Y
	return fused
}
