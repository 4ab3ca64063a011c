package flyer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawText draws s with its top edge at y and returns the advance width.
// Glyphs outside clip are not painted.
func drawText(dst *image.NRGBA, clip image.Rectangle, face font.Face, c color.Color, x, y int, s string) int {
	target := draw.Image(dst)
	if !clip.Empty() {
		sub, ok := dst.SubImage(clip.Intersect(dst.Bounds())).(*image.NRGBA)
		if ok {
			target = sub
		}
	}
	d := &font.Drawer{
		Dst:  target,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + ascent(face)},
	}
	d.DrawString(s)
	return TextWidth(face, s)
}

// drawCenteredText centers s horizontally and vertically inside box
func drawCenteredText(dst *image.NRGBA, box image.Rectangle, face font.Face, c color.Color, s string) {
	w := TextWidth(face, s)
	h := LineHeight(face)
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	drawText(dst, box, face, c, x, y, s)
}

// pasteOver alpha-composites src onto dst with its top-left corner at pt
func pasteOver(dst *image.NRGBA, src image.Image, pt image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: pt, Max: pt.Add(b.Size())}, src, b.Min, draw.Over)
}
