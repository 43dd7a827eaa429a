package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docstruct/tably/internal/ocr"
)

// longPartRunes is the rune count above which a single unsplit name part is
// assumed to be a fused given-name+surname and split structurally.
const longPartRunes = 12

// splitClampMin bounds the structural split point away from either end so
// neither half degenerates to a couple of characters.
const splitClampMin = 6

// machine states for the token-stream parser.
type state int

const (
	stateIdle         state = iota // no person accumulating; non-title tokens are noise
	stateAccumulating              // collecting parts for the current person
)

// person is the accumulator for one detected individual.
type person struct {
	prefix string
	parts  []string
}

// NormalizeFragmentedNames turns a row's noisy, X-ordered name tokens into
// canonical person strings. Broken title abbreviations are repaired first,
// then a two-state machine walks the stream: a title always starts a new
// person (flushing the previous one, never merging two people), a title
// embedded mid-token splits that token between the outgoing and incoming
// person, and anything before the first title is discarded as leading noise.
//
// Input with no recognizable title anywhere yields an empty list, not an
// error; this is a best-effort formatter, not a validator.
func NormalizeFragmentedNames(tokens []ocr.Token) []string {
	merged := MergeBrokenPrefixes(tokens)

	var (
		results []string
		cur     person
		st      = stateIdle
	)

	flush := func() {
		if st == stateAccumulating {
			results = append(results, formatPerson(cur))
		}
		st = stateIdle
		cur = person{}
	}
	begin := func(prefix, rest string) {
		st = stateAccumulating
		cur = person{prefix: prefix}
		if rest != "" {
			cur.parts = append(cur.parts, rest)
		}
	}

	for _, tok := range merged {
		text := norm.NFC.String(strings.TrimSpace(tok.Text))
		if text == "" {
			continue
		}
		if prefix, rest, ok := MatchPrefix(text); ok {
			flush()
			begin(prefix, rest)
			continue
		}
		if st == stateIdle {
			// Leading noise before any title is never attributed to a person.
			continue
		}
		if off, prefix, ok := findEmbeddedPrefix(text); ok {
			// Two fused people: the head closes the current person, the
			// tail opens the next one under the embedded title.
			cur.parts = append(cur.parts, text[:off])
			flush()
			begin(prefix, text[off+len(prefix):])
			continue
		}
		cur.parts = append(cur.parts, text)
	}
	flush()

	return results
}

// formatPerson renders an accumulated person as its canonical string.
func formatPerson(p person) string {
	switch len(p.parts) {
	case 0:
		return p.prefix
	case 1:
		return p.prefix + splitLongPart(p.parts[0])
	default:
		return p.prefix + p.parts[0] + " " + strings.Join(p.parts[1:], "")
	}
}

// splitLongPart breaks a single overlong part in two with one space. The
// split point is floor(n/2) clamped to [6, n-6] runes, a purely structural
// guess at the given-name/surname boundary; short parts pass through as-is.
func splitLongPart(part string) string {
	runes := []rune(part)
	n := len(runes)
	if n <= longPartRunes {
		return part
	}
	at := n / 2
	if at < splitClampMin {
		at = splitClampMin
	}
	if at > n-splitClampMin {
		at = n - splitClampMin
	}
	return string(runes[:at]) + " " + string(runes[at:])
}
