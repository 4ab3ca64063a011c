package flyer

import (
	"context"

	"golang.org/x/image/font"

	"flyer-builder/models"
	"flyer-builder/utils"
)

// charWidthFactor approximates the average glyph advance as a fraction of the font size
const charWidthFactor = 0.5

// ShrinkOptions bounds the adaptive text sizing
type ShrinkOptions struct {
	BoxWidth int
	MinSize  float64
	Step     float64
	MaxLines int // 0 means unlimited
}

// ShrinkToFit wraps text starting at the role's nominal size and shrinks the font by
// Step until the widest line fits BoxWidth (and the line count fits MaxLines).
// At MinSize the current result is accepted even if it still overflows.
func ShrinkToFit(ctx context.Context, fonts *FontSet, spec models.FontSpec, text string, opts ShrinkOptions) ([]string, float64) {
	size := spec.Size
	if size <= 0 {
		size = 16
	}
	minSize := opts.MinSize
	if minSize <= 0 || minSize > size {
		minSize = size
	}
	step := opts.Step
	if step <= 0 {
		step = 1
	}

	for {
		face := fonts.Face(ctx, spec, size)
		lines := wrapForWidth(text, opts.BoxWidth, size)
		if fits(face, lines, opts) || size <= minSize {
			return lines, size
		}
		size -= step
		if size < minSize {
			size = minSize
		}
	}
}

// wrapForWidth wraps by a character budget derived from the box width at the given size
func wrapForWidth(text string, boxWidth int, size float64) []string {
	budget := int(float64(boxWidth) / (size * charWidthFactor))
	if budget < 1 {
		budget = 1
	}
	return utils.Wrap(text, budget)
}

func fits(face font.Face, lines []string, opts ShrinkOptions) bool {
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		return false
	}
	return widestLine(face, lines) <= opts.BoxWidth
}

func widestLine(face font.Face, lines []string) int {
	widest := 0
	for _, line := range lines {
		if w := TextWidth(face, line); w > widest {
			widest = w
		}
	}
	return widest
}
