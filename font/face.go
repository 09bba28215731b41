package font

import (
	"image"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	faceOnce sync.Once
	face     *basicfont.Face
)

// Face returns the glyph table as a font face, for use with [xfont.Drawer].
//
// Glyphs sit on the baseline with no descent, so drawing at dot y=7 fills rows 0-6.
func Face() xfont.Face {
	faceOnce.Do(func() {
		face = &basicfont.Face{
			Advance: Width + 1,
			Width:   Width,
			Height:  Height,
			Ascent:  Height,
			Descent: 0,
			Mask:    faceMask(),
			Ranges: []basicfont.Range{
				{Low: First, High: Last + 1, Offset: 0},
			},
		}
	})
	return face
}

// faceMask stacks all glyphs vertically, one Height tall cell each.
func faceMask() *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, Width, len(glyphs)*Height))
	for i, g := range glyphs {
		for x := 0; x < Width; x++ {
			for y := 0; y < Height; y++ {
				if g.Bit(x, y) {
					mask.Pix[mask.PixOffset(x, i*Height+y)] = 0xff
				}
			}
		}
	}
	return mask
}
