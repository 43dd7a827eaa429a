package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/docstruct/tably/internal/layout"
	"github.com/docstruct/tably/internal/names"
	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/reconcile"
	"github.com/docstruct/tably/internal/template"
)

// DefaultYTolerance is the vertical distance, in pixels, within which two
// tokens are considered to sit on the same row.
const DefaultYTolerance = 10.0

// Config controls one extraction run. Zero tolerances are replaced with the
// package defaults; a nil Template selects geometric column segmentation
// with synthetic col1..colN keys and no name-typed columns.
type Config struct {
	YTolerance float64
	XThreshold float64
	Template   *template.Template
}

// Extractor reconstructs table rows from OCR tokens. It holds only
// configuration; every Process call is a pure function of its inputs, so a
// single Extractor is safe for concurrent use across pages and documents.
type Extractor struct {
	cfg Config
}

// New returns an Extractor for the given configuration, applying defaults
// for unset tolerances.
func New(cfg Config) *Extractor {
	if cfg.YTolerance == 0 {
		cfg.YTolerance = DefaultYTolerance
	}
	if cfg.XThreshold == 0 {
		cfg.XThreshold = layout.DefaultXThreshold
	}
	return &Extractor{cfg: cfg}
}

// ZoneDefs returns the template zones in effect, or nil in geometric mode.
func (e *Extractor) ZoneDefs() []layout.ZoneDef {
	if e.cfg.Template == nil {
		return nil
	}
	return e.cfg.Template.ZoneDefs()
}

// PageResult is the reconstructed table of a single page.
type PageResult struct {
	PageNumber  int                    `json:"page_number"`
	Columns     []string               `json:"columns"`
	PrimaryKey  string                 `json:"primary_key,omitempty"`
	PrimaryRows []reconcile.PrimaryRow `json:"primary_rows,omitempty"`
	Rows        []reconcile.TableRow   `json:"rows"`
}

// Result is the reconstructed table of a whole document: per-page tables
// plus the page-order concatenation of their rows. Rows are never merged
// across page boundaries, even when Y values coincide between pages.
type Result struct {
	Filename string               `json:"filename,omitempty"`
	Columns  []string             `json:"columns"`
	Pages    []PageResult         `json:"pages"`
	Rows     []reconcile.TableRow `json:"rows"`
}

// ProcessPage reconstructs the table of one page. An empty page, or a page
// whose tokens yield no columns, produces an empty (never nil-error) result.
func (e *Extractor) ProcessPage(page ocr.Page) PageResult {
	res := PageResult{PageNumber: page.PageNumber}

	var columns []layout.Column
	nameCols := map[string]bool{}
	if e.cfg.Template != nil {
		columns = layout.SegmentByZones(page.Words, e.cfg.Template.ZoneDefs(), page.Width, page.Height)
		nameCols = e.cfg.Template.NameColumns()
	} else {
		columns = layout.SegmentByGeometry(page.Words, e.cfg.XThreshold)
		for i := range columns {
			columns[i].Key = fmt.Sprintf("col%d", i+1)
		}
	}
	for _, c := range columns {
		res.Columns = append(res.Columns, c.Key)
	}

	primary := reconcile.DetectPrimaryColumn(columns, e.cfg.YTolerance)
	if primary == nil || primary.Empty() {
		slog.Debug("no primary column on page", "page", page.PageNumber, "tokens", len(page.Words))
		return res
	}
	res.PrimaryKey = primary.Key
	res.PrimaryRows = reconcile.BuildPrimaryRows(primary, e.cfg.YTolerance)

	cells := make(map[string][]string, len(columns))
	for i := range columns {
		col := &columns[i]
		if col == primary {
			continue
		}
		if nameCols[col.Key] {
			cells[col.Key] = e.fillNameColumn(res.PrimaryRows, col.Tokens)
		} else {
			cells[col.Key] = reconcile.FillColumnByYMatch(res.PrimaryRows, col.Tokens, e.cfg.YTolerance)
		}
	}

	primaryRows := res.PrimaryRows
	if nameCols[primary.Key] {
		primaryRows = e.normalizePrimaryNames(primary, primaryRows)
	}
	res.Rows = reconcile.AssembleTable(primary.Key, primaryRows, cells)

	slog.Debug("page reconstructed",
		"page", page.PageNumber,
		"columns", len(columns),
		"primary", primary.Key,
		"rows", len(res.Rows))
	return res
}

// fillNameColumn reconciles a name-typed column and routes each matched
// cell's token group through the fragmented-name normalizer. A cell holding
// several detected people joins their canonical strings with one space.
func (e *Extractor) fillNameColumn(rows []reconcile.PrimaryRow, tokens []ocr.Token) []string {
	groups := reconcile.FillColumnTokensByYMatch(rows, tokens, e.cfg.YTolerance)
	cells := make([]string, len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		cells[i] = strings.Join(names.NormalizeFragmentedNames(g), " ")
	}
	return cells
}

// normalizePrimaryNames rewrites the primary rows' text through the name
// normalizer when the primary column itself is name-typed. Row Y anchors,
// count, and order stay untouched.
func (e *Extractor) normalizePrimaryNames(primary *layout.Column, rows []reconcile.PrimaryRow) []reconcile.PrimaryRow {
	groups := reconcile.PrimaryRowTokens(primary, e.cfg.YTolerance)
	out := make([]reconcile.PrimaryRow, len(rows))
	copy(out, rows)
	for i := range out {
		if i < len(groups) {
			out[i].Text = strings.Join(names.NormalizeFragmentedNames(groups[i]), " ")
		}
	}
	return out
}

// AddPage appends a page's table to the document result: rows concatenate
// in call order and the page's column keys merge into the document key list
// preserving first appearance.
func (r *Result) AddPage(pr PageResult) {
	r.Pages = append(r.Pages, pr)
	r.Rows = append(r.Rows, pr.Rows...)
	r.Columns = mergeColumnKeys(r.Columns, pr.Columns)
}

// ProcessDocument runs the page pipeline over every page in order and
// concatenates the results. Pages are fully independent; nothing carries
// over between them.
func (e *Extractor) ProcessDocument(doc *ocr.Document) *Result {
	res := &Result{Filename: doc.Filename}
	for _, page := range doc.Pages {
		res.AddPage(e.ProcessPage(page))
	}
	return res
}

// mergeColumnKeys unions column key lists preserving first-appearance
// order. With a template every page reports the same keys; geometric pages
// can differ when token density differs between pages.
func mergeColumnKeys(have, add []string) []string {
	seen := make(map[string]bool, len(have))
	for _, k := range have {
		seen[k] = true
	}
	for _, k := range add {
		if !seen[k] {
			have = append(have, k)
			seen[k] = true
		}
	}
	return have
}
