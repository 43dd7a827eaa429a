// Package testutil provides token and page fixtures for reconstruction tests.
package testutil

import (
	"math/rand"

	"github.com/docstruct/tably/internal/ocr"
)

// Standard fixture dimensions for a synthetic A4-ish scan.
const (
	PageWidth  = 1240.0
	PageHeight = 1754.0

	// TokenWidth and TokenHeight are the default word box dimensions.
	TokenWidth  = 60.0
	TokenHeight = 18.0
)

// Tok builds a token at (x, y) with the default word box size.
func Tok(text string, x, y float64) ocr.Token {
	return ocr.Token{Text: text, X: x, Y: y, W: TokenWidth, H: TokenHeight}
}

// TokSized builds a token with an explicit bounding box.
func TokSized(text string, x, y, w, h float64) ocr.Token {
	return ocr.Token{Text: text, X: x, Y: y, W: w, H: h}
}

// Page wraps tokens into a single page with the standard fixture size.
func Page(number int, tokens ...ocr.Token) ocr.Page {
	for i := range tokens {
		tokens[i].PageNumber = number
	}
	return ocr.Page{PageNumber: number, Width: PageWidth, Height: PageHeight, Words: tokens}
}

// Document wraps pages into a document.
func Document(pages ...ocr.Page) *ocr.Document {
	return &ocr.Document{Filename: "fixture.json", Pages: pages}
}

// Shuffled returns a copy of tokens in a deterministic pseudo-random order,
// for order-independence tests.
func Shuffled(tokens []ocr.Token, seed int64) []ocr.Token {
	out := make([]ocr.Token, len(tokens))
	copy(out, tokens)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// RosterTokens lays out a small two-column roster: sequence numbers on the
// left, names on the right, one row every rowGap pixels starting at startY.
func RosterTokens(rows int, startY, rowGap float64) []ocr.Token {
	var tokens []ocr.Token
	for i := 0; i < rows; i++ {
		y := startY + float64(i)*rowGap
		tokens = append(tokens,
			Tok(seq[i%len(seq)], 40, y),
			Tok("นายสมชาย", 300, y),
			Tok("ใจดี", 420, y),
		)
	}
	return tokens
}

var seq = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
