package overlay

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstruct/tably/internal/extract"
	"github.com/docstruct/tably/internal/layout"
	"github.com/docstruct/tably/internal/reconcile"
	"github.com/docstruct/tably/internal/testutil"
)

func TestRender_NilImageGetsPageCanvas(t *testing.T) {
	page := testutil.Page(1, testutil.Tok("1", 40, 100))

	img := Render(nil, page, extract.PageResult{}, nil, DefaultOptions())

	require.NotNil(t, img)
	assert.Equal(t, int(testutil.PageWidth), img.Bounds().Dx())
	assert.Equal(t, int(testutil.PageHeight), img.Bounds().Dy())
	// Background stays white away from any geometry.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(700, 700))
}

func TestRender_DrawsTokenBoxes(t *testing.T) {
	opts := DefaultOptions()
	opts.Labels = false
	page := testutil.Page(1, testutil.TokSized("1", 100, 200, 60, 18))

	img := Render(nil, page, extract.PageResult{}, nil, opts)

	want := opts.TokenColor.(color.RGBA)
	assert.Equal(t, want, img.RGBAAt(100, 200)) // top-left corner
	assert.Equal(t, want, img.RGBAAt(130, 200)) // top edge
	assert.Equal(t, want, img.RGBAAt(100, 210)) // left edge
	assert.NotEqual(t, want, img.RGBAAt(130, 210))
}

func TestRender_DrawsZonesAndRows(t *testing.T) {
	opts := DefaultOptions()
	opts.Labels = false
	page := testutil.Page(1)
	zones := []layout.ZoneDef{
		{Key: "name", Zone: layout.Zone{X: 0.1, Y: 0.1, W: 0.5, H: 0.5}},
	}
	res := extract.PageResult{
		PrimaryRows: []reconcile.PrimaryRow{{Y: 300, Text: "x"}},
	}

	img := Render(nil, page, res, zones, opts)

	zoneCol := opts.ZoneColor.(color.RGBA)
	pageW, pageH := float64(testutil.PageWidth), float64(testutil.PageHeight)
	left := int(0.1 * pageW)
	top := int(0.1 * pageH)
	assert.Equal(t, zoneCol, img.RGBAAt(left+10, top))

	rowCol := opts.RowColor.(color.RGBA)
	assert.Equal(t, rowCol, img.RGBAAt(900, 300))
}

func TestRender_CopiesExistingImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			src.SetRGBA(x, y, color.RGBA{10, 20, 30, 255})
		}
	}
	page := testutil.Page(1)

	img := Render(src, page, extract.PageResult{}, nil, DefaultOptions())

	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(50, 50))
	// The source image is untouched.
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, src.RGBAAt(0, 0))
}

func TestSave(t *testing.T) {
	page := testutil.Page(1, testutil.Tok("1", 40, 100))
	img := Render(nil, page, extract.PageResult{}, nil, DefaultOptions())

	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, Save(img, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSave_UnknownExtension(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	err := Save(img, filepath.Join(t.TempDir(), "page.xyz"))
	assert.Error(t, err)
}
