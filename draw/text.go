package draw

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// String draws s with face, starting at the baseline point dot. Lit mask pixels are set to c,
// the others are left untouched. The returned point is the dot after the last glyph.
func String(dst Image, dot image.Point, face font.Face, s string, c color.Color) image.Point {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
	return image.Pt(d.Dot.X.Round(), d.Dot.Y.Round())
}
