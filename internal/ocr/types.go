package ocr

// Token is one recognized word with its pixel bounding box, as returned by
// the external recognition service. Tokens are never mutated by the
// reconstruction core; packages downstream only copy and re-group references.
type Token struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence,omitempty"`
	PageNumber int     `json:"page_number,omitempty"`
}

// Right returns the right edge of the token's bounding box.
func (t Token) Right() float64 { return t.X + t.W }

// Bottom returns the bottom edge of the token's bounding box.
func (t Token) Bottom() float64 { return t.Y + t.H }

// CenterY returns the vertical center of the token's bounding box.
func (t Token) CenterY() float64 { return t.Y + t.H/2 }

// Page holds the recognized words of a single page together with the page's
// pixel dimensions. Coordinates are page-local; page N never carries offsets
// from pages before it.
type Page struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Words      []Token `json:"words"`
}

// Document is the full output of one recognition run over a (possibly
// multi-page) source document.
type Document struct {
	Filename string `json:"filename,omitempty"`
	Pages    []Page `json:"pages"`
}

// TotalWords counts the recognized words across all pages.
func (d *Document) TotalWords() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Words)
	}
	return n
}
