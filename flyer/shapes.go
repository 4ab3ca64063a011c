package flyer

import (
	"image"
	"image/color"
	"image/draw"
)

// roundedMask is an alpha mask that is opaque inside a rounded rectangle
type roundedMask struct {
	rect   image.Rectangle
	radius int
}

func (m roundedMask) ColorModel() color.Model { return color.AlphaModel }
func (m roundedMask) Bounds() image.Rectangle { return m.rect }

func (m roundedMask) At(x, y int) color.Color {
	if insideRounded(m.rect, m.radius, x, y) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// circleMask is opaque inside the circle inscribed in rect
type circleMask struct {
	rect image.Rectangle
}

func (m circleMask) ColorModel() color.Model { return color.AlphaModel }
func (m circleMask) Bounds() image.Rectangle { return m.rect }

func (m circleMask) At(x, y int) color.Color {
	d := m.rect.Dx()
	if m.rect.Dy() < d {
		d = m.rect.Dy()
	}
	// work in doubled coordinates so pixel centers stay integral
	cx := m.rect.Min.X*2 + m.rect.Dx()
	cy := m.rect.Min.Y*2 + m.rect.Dy()
	px, py := x*2+1-cx, y*2+1-cy
	if px*px+py*py <= d*d {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func insideRounded(r image.Rectangle, radius, x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(r) {
		return false
	}
	maxRadius := r.Dx() / 2
	if r.Dy()/2 < maxRadius {
		maxRadius = r.Dy() / 2
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	if radius <= 0 {
		return true
	}

	// corner circle centers, doubled coordinates
	left, right := (r.Min.X+radius)*2, (r.Max.X-radius)*2
	top, bottom := (r.Min.Y+radius)*2, (r.Max.Y-radius)*2
	px, py := x*2+1, y*2+1

	var dx, dy int
	switch {
	case px < left:
		dx = left - px
	case px > right:
		dx = px - right
	}
	switch {
	case py < top:
		dy = top - py
	case py > bottom:
		dy = py - bottom
	}
	if dx == 0 || dy == 0 {
		return true
	}
	return dx*dx+dy*dy <= 4*radius*radius
}

// fillRect paints an opaque or translucent rectangle
func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// fillRoundedRect paints a rounded rectangle
func fillRoundedRect(dst draw.Image, r image.Rectangle, radius int, c color.Color) {
	if r.Empty() {
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, roundedMask{rect: r, radius: radius}, r.Min, draw.Over)
}

// badge clips src (drawn at its own bounds) to a circle or rounded rectangle
func badge(src image.Image, shape string) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	var mask image.Image
	switch shape {
	case "circle":
		mask = circleMask{rect: out.Bounds()}
	case "rounded":
		radius := b.Dx()
		if b.Dy() < radius {
			radius = b.Dy()
		}
		mask = roundedMask{rect: out.Bounds(), radius: radius / 6}
	default:
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}
	draw.DrawMask(out, out.Bounds(), src, b.Min, mask, image.Point{}, draw.Src)
	return out
}
