package utils

import (
	"image"
	"image/color"
	"math"
)

// DrawRect outlines rect on dst with the given stroke thickness.
func DrawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		yTop := rect.Min.Y + t
		yBot := rect.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, yTop, col)
			dst.Set(x, yBot, col)
		}
	}
	for t := 0; t < thickness; t++ {
		xLeft := rect.Min.X + t
		xRight := rect.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(xLeft, y, col)
			dst.Set(xRight, y, col)
		}
	}
}

// DrawHLine draws a horizontal guide line across [x0,x1) at row y.
func DrawHLine(dst *image.RGBA, x0, x1, y int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	b := dst.Bounds()
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for t := 0; t < thickness; t++ {
		yy := y + t
		if yy < b.Min.Y || yy >= b.Max.Y {
			continue
		}
		for x := max(x0, b.Min.X); x < min(x1, b.Max.X); x++ {
			dst.Set(x, yy, col)
		}
	}
}

// PixelRect converts a float box to an image.Rectangle, rounding outward
// coordinates to the nearest pixel.
func PixelRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x)),
		int(math.Round(y)),
		int(math.Round(x+w)),
		int(math.Round(y+h)),
	)
}
