package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"flyer-builder/models"
)

// Resolve validates a theme, fills zero-valued tunables and parses its colors into Palette
func Resolve(th *models.Theme) error {
	if th.Canvas.Width <= 0 || th.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", th.Canvas.Width, th.Canvas.Height)
	}
	if th.Grid.Columns <= 0 || th.Grid.Rows <= 0 {
		return fmt.Errorf("grid must have at least one column and row")
	}
	if th.Grid.Columns*th.Grid.Rows < models.BatchSize {
		return fmt.Errorf("grid %dx%d has fewer than %d cells", th.Grid.Columns, th.Grid.Rows, models.BatchSize)
	}
	if th.Grid.CellWidth <= 0 || th.Grid.CellHeight <= 0 {
		return fmt.Errorf("grid cell size must be positive")
	}

	if th.Text.TitleStep <= 0 {
		th.Text.TitleStep = 2
	}
	if th.Text.TitleMinSize <= 0 {
		th.Text.TitleMinSize = 12
	}
	if th.Output.Quality <= 0 || th.Output.Quality > 100 {
		th.Output.Quality = 85
	}
	if th.Output.Format != "png" {
		th.Output.Format = "jpeg"
	}
	if th.Fonts == nil {
		th.Fonts = map[string]models.FontSpec{}
	}

	fields := []struct {
		name string
		hex  string
		dst  *color.NRGBA
	}{
		{"background", th.Colors.Background, &th.Palette.Background},
		{"headerBackground", th.Colors.HeaderBackground, &th.Palette.HeaderBackground},
		{"headerText", th.Colors.HeaderText, &th.Palette.HeaderText},
		{"labelBackground", th.Colors.LabelBackground, &th.Palette.LabelBackground},
		{"labelText", th.Colors.LabelText, &th.Palette.LabelText},
		{"sloganBackground", th.Colors.SloganBackground, &th.Palette.SloganBackground},
		{"sloganText", th.Colors.SloganText, &th.Palette.SloganText},
		{"cardBackground", th.Colors.CardBackground, &th.Palette.CardBackground},
		{"cardBorder", th.Colors.CardBorder, &th.Palette.CardBorder},
		{"brandText", th.Colors.BrandText, &th.Palette.BrandText},
		{"titleText", th.Colors.TitleText, &th.Palette.TitleText},
		{"accent", th.Colors.Accent, &th.Palette.Accent},
		{"accentText", th.Colors.AccentText, &th.Palette.AccentText},
		{"regularText", th.Colors.RegularText, &th.Palette.RegularText},
		{"skuBackground", th.Colors.SKUBackground, &th.Palette.SKUBackground},
		{"skuText", th.Colors.SKUText, &th.Palette.SKUText},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return fmt.Errorf("color %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return nil
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
