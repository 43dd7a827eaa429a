package ocr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoPages indicates a syntactically valid document without any pages.
	ErrNoPages = errors.New("ocr document contains no pages")

	// ErrInvalidPageSize indicates a page with non-positive pixel dimensions.
	ErrInvalidPageSize = errors.New("ocr page has non-positive dimensions")
)

// DecodeDocument reads a recognition-service result document from r.
// Pages are renumbered sequentially starting at 1 when the payload left
// page_number unset, and every word is stamped with its page number so
// tokens remain attributable after re-grouping.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding ocr document: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	for i := range doc.Pages {
		p := &doc.Pages[i]
		if p.PageNumber == 0 {
			p.PageNumber = i + 1
		}
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("page %d: %w", p.PageNumber, ErrInvalidPageSize)
		}
		for j := range p.Words {
			p.Words[j].PageNumber = p.PageNumber
		}
	}
	return &doc, nil
}
