package names

import "strings"

// prefixes is the fixed table of honorifics and rank titles that mark the
// start of a personal-name record. Ordered longest first so that matching
// never lets a short title shadow a longer one ("นาง" vs "นางสาว"). This is
// the only vocabulary the normalizer has; there is no given-name or surname
// dictionary anywhere in the package.
var prefixes = []string{
	"ว่าที่ร้อยตรี",
	"เด็กหญิง",
	"เด็กชาย",
	"นางสาว",
	"จ.ส.อ.",
	"พ.อ.อ.",
	"ด.ญ.",
	"ด.ช.",
	"น.ส.",
	"นาง",
	"นาย",
}

// Prefixes returns a copy of the honorific table, longest first.
func Prefixes() []string {
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return out
}

// MatchPrefix tests whether text starts with a known honorific. On a match
// it returns the canonical prefix and the remaining text after it.
func MatchPrefix(text string) (prefix, rest string, ok bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return p, text[len(p):], true
		}
	}
	return "", "", false
}

// findEmbeddedPrefix looks for a known honorific starting at a nonzero byte
// offset inside text, which is how two fused people show up in one token.
// The leftmost occurrence wins so the split lands at the first fused record
// boundary; at equal offsets the longer title takes precedence because the
// table is ordered longest first.
func findEmbeddedPrefix(text string) (offset int, prefix string, ok bool) {
	best := -1
	for _, p := range prefixes {
		if idx := strings.Index(text, p); idx > 0 && (best < 0 || idx < best) {
			best, prefix = idx, p
		}
	}
	if best < 0 {
		return 0, "", false
	}
	return best, prefix, true
}

// dottedFragments splits an abbreviated title into its dot-terminated
// pieces: "น.ส." becomes ["น.", "ส."]. Titles without at least two pieces
// cannot fragment across tokens and yield nil.
func dottedFragments(prefix string) []string {
	if strings.Count(prefix, ".") < 2 {
		return nil
	}
	var frags []string
	rest := prefix
	for {
		idx := strings.Index(rest, ".")
		if idx < 0 {
			break
		}
		frags = append(frags, rest[:idx+1])
		rest = rest[idx+1:]
	}
	if rest != "" {
		// Trailing non-dotted text means this is not a pure abbreviation.
		return nil
	}
	return frags
}
