package theme

import "flyer-builder/models"

// DefaultLogo is the logo badge shipped with the repository, relative to the asset directory
const DefaultLogo = "assets/logo.png"

// DefaultTheme is the purple "BOMBAS DEL MES" flyer: 1200x1800 canvas,
// 400px header and a 2x3 grid of 520x420 cards.
func DefaultTheme() models.Theme {
	return models.Theme{
		Name:   "default",
		Canvas: models.CanvasSize{Width: 1200, Height: 1800},
		Colors: models.ThemeColors{
			Background:       "#F4F0F7",
			HeaderBackground: "#660099",
			HeaderText:       "#FFFFFF",
			LabelBackground:  "#FFD100",
			LabelText:        "#3D0066",
			SloganBackground: "#FFFFFF",
			SloganText:       "#660099",
			CardBackground:   "#FFFFFF",
			CardBorder:       "#E6E6E6",
			BrandText:        "#808080",
			TitleText:        "#1A1A1A",
			Accent:           "#E30613",
			AccentText:       "#FFFFFF",
			RegularText:      "#808080",
			SKUBackground:    "#3D0066",
			SKUText:          "#FFFFFF",
		},
		Assets: models.ThemeAssets{Logo: DefaultLogo},
		Fonts:  map[string]models.FontSpec{
			models.RoleHeader:  {Style: "bold", Size: 60},
			models.RoleSlogan:  {Style: "bold", Size: 32},
			models.RoleLabel:   {Style: "bold", Size: 26},
			models.RoleStamp:   {Style: "regular", Size: 18},
			models.RoleBrand:   {Style: "bold", Size: 22},
			models.RoleTitle:   {Style: "regular", Size: 24},
			models.RolePrice:   {Style: "bold", Size: 40},
			models.RoleRegular: {Style: "regular", Size: 24},
			models.RoleSKU:     {Style: "bold", Size: 18},
		},
		Header: models.HeaderLayout{
			Height:         400,
			OverlayOpacity: 0.45,
			LogoBox:        models.Rect{X: 500, Y: 30, W: 200, H: 150},
			LogoShape:      "circle",
			TitleY:         200,
			LabelY:         30,
			LabelMargin:    40,
			LabelPadding:   18,
			StampX:         40,
			StampY:         36,
			StampFormat:    "Generado: 02/01/2006 15:04",
			SloganBox:      models.Rect{X: 100, Y: 300, W: 1000, H: 70},
			SloganRadius:   35,
		},
		Grid: models.GridLayout{
			Columns:      2,
			Rows:         3,
			OriginX:      50,
			OriginY:      450,
			CellWidth:    520,
			CellHeight:   420,
			GutterX:      55,
			GutterY:      30,
			Padding:      20,
			CornerRadius: 18,
			BorderWidth:  2,
			ImageSize:    200,
			PriceBoxH:    60,
		},
		Text: models.TextRules{
			BrandMaxChars: 20,
			TitleMaxLines: 2,
			TitleMinSize:  14,
			TitleStep:     2,
		},
		Currency: "S/",
		Title:    "BOMBAS DEL MES",
		Slogan:   "¡Precios increíbles por tiempo limitado!",
		Output:   models.OutputFormat{Format: "jpeg", Quality: 85},
	}
}
