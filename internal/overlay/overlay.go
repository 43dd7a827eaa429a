// Package overlay renders reconstruction geometry onto page images for
// debugging and template authoring: token bounding boxes, template zones,
// and the primary-row guide lines the table was anchored to.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/docstruct/tably/internal/extract"
	"github.com/docstruct/tably/internal/layout"
	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/utils"
)

// Options selects colors and label rendering for the overlay.
type Options struct {
	TokenColor color.Color
	ZoneColor  color.Color
	RowColor   color.Color
	Labels     bool
}

// DefaultOptions returns the standard overlay palette.
func DefaultOptions() Options {
	return Options{
		TokenColor: color.RGBA{R: 220, G: 60, B: 60, A: 255},
		ZoneColor:  color.RGBA{R: 60, G: 90, B: 220, A: 255},
		RowColor:   color.RGBA{R: 40, G: 160, B: 80, A: 255},
		Labels:     true,
	}
}

// Render draws the page's tokens, the given zones, and the result's primary
// rows onto a copy of img. A nil img gets a white canvas of the page's
// pixel size instead, which is the usual case when only the recognition
// JSON is at hand and not the scanned image itself.
func Render(img image.Image, page ocr.Page, res extract.PageResult, zones []layout.ZoneDef, opts Options) *image.RGBA {
	dst := canvas(img, page)

	for _, zd := range zones {
		left, top, right, bottom := zd.Zone.Abs(page.Width, page.Height)
		rect := image.Rect(round(left), round(top), round(right), round(bottom))
		utils.DrawRect(dst, rect, opts.ZoneColor, 2)
		if opts.Labels {
			drawLabel(dst, zd.Key, round(left)+3, round(top)+12, opts.ZoneColor)
		}
	}

	for _, tok := range page.Words {
		utils.DrawRect(dst, utils.PixelRect(tok.X, tok.Y, tok.W, tok.H), opts.TokenColor, 1)
	}

	for i, pr := range res.PrimaryRows {
		y := round(pr.Y)
		utils.DrawHLine(dst, 0, dst.Bounds().Dx(), y, opts.RowColor, 1)
		if opts.Labels {
			drawLabel(dst, fmt.Sprintf("r%d", i+1), 2, y-2, opts.RowColor)
		}
	}

	return dst
}

// Save writes the overlay image to path; the format follows the extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving overlay: %w", err)
	}
	return nil
}

// canvas copies img into an RGBA buffer, or builds a white page-sized one.
func canvas(img image.Image, page ocr.Page) *image.RGBA {
	if img == nil {
		dst := image.NewRGBA(image.Rect(0, 0, round(page.Width), round(page.Height)))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		return dst
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// drawLabel renders small ASCII annotation text at (x, y baseline).
func drawLabel(dst *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func round(v float64) int { return int(math.Round(v)) }
