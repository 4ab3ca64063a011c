package flyer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flyer-builder/models"
)

func TestShrinkToFitKeepsNominalSizeWhenItFits(t *testing.T) {
	fonts := NewFontSet(nil)
	spec := models.FontSpec{Style: "regular", Size: 24}

	lines, size := ShrinkToFit(context.Background(), fonts, spec, "Licuadora", ShrinkOptions{BoxWidth: 480, MinSize: 14, Step: 2, MaxLines: 2})

	assert.Equal(t, 24.0, size)
	assert.Equal(t, []string{"Licuadora"}, lines)
}

func TestShrinkToFitShrinksOverflowingText(t *testing.T) {
	fonts := NewFontSet(nil)
	spec := models.FontSpec{Style: "regular", Size: 24}
	title := "Refrigeradora-SideBySide-InverterNoFrost-Premium"

	face := fonts.Face(context.Background(), spec, 24)
	if TextWidth(face, title) <= 200 {
		t.Fatalf("fixture title should overflow the box at nominal size")
	}

	_, size := ShrinkToFit(context.Background(), fonts, spec, title, ShrinkOptions{BoxWidth: 200, MinSize: 14, Step: 2})

	assert.Less(t, size, 24.0)
	assert.GreaterOrEqual(t, size, 14.0)
}

func TestShrinkToFitNeverGoesBelowMinimum(t *testing.T) {
	fonts := NewFontSet(nil)
	spec := models.FontSpec{Style: "bold", Size: 30}
	title := strings.Repeat("W", 200)

	lines, size := ShrinkToFit(context.Background(), fonts, spec, title, ShrinkOptions{BoxWidth: 100, MinSize: 13, Step: 4})

	assert.Equal(t, 13.0, size)
	assert.Equal(t, []string{title}, lines)
}

func TestShrinkToFitRespectsLineCap(t *testing.T) {
	fonts := NewFontSet(nil)
	spec := models.FontSpec{Style: "regular", Size: 24}
	title := "Smart TV LED 55 pulgadas 4K UHD con control por voz y HDR10 incluido y garantía extendida de dos años"

	lines, size := ShrinkToFit(context.Background(), fonts, spec, title, ShrinkOptions{BoxWidth: 480, MinSize: 12, Step: 2, MaxLines: 2})

	assert.LessOrEqual(t, len(lines), 2)
	assert.Less(t, size, 24.0)
}
