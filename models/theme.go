package models

import "image/color"

// Theme is the immutable visual configuration of one flyer family.
// JSON fields use hex colors; Resolve fills the parsed color values.
type Theme struct {
	Name     string              `json:"name"`
	Canvas   CanvasSize          `json:"canvas"`
	Colors   ThemeColors         `json:"colors"`
	Assets   ThemeAssets         `json:"assets"`
	Fonts    map[string]FontSpec `json:"fonts"`
	Header   HeaderLayout        `json:"header"`
	Grid     GridLayout          `json:"grid"`
	Text     TextRules           `json:"text"`
	Currency string              `json:"currency"`
	Title    string              `json:"title"`
	Slogan   string              `json:"slogan"`
	Output   OutputFormat        `json:"output"`

	Palette Palette `json:"-"`
}

// Font roles
const (
	RoleHeader  = "header"
	RoleSlogan  = "slogan"
	RoleLabel   = "label"
	RoleStamp   = "stamp"
	RoleBrand   = "brand"
	RoleTitle   = "title"
	RolePrice   = "price"
	RoleRegular = "regular"
	RoleSKU     = "sku"
)

type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ThemeColors are hex strings (#RRGGBB or #RRGGBBAA)
type ThemeColors struct {
	Background       string `json:"background"`
	HeaderBackground string `json:"headerBackground"`
	HeaderText       string `json:"headerText"`
	LabelBackground  string `json:"labelBackground"`
	LabelText        string `json:"labelText"`
	SloganBackground string `json:"sloganBackground"`
	SloganText       string `json:"sloganText"`
	CardBackground   string `json:"cardBackground"`
	CardBorder       string `json:"cardBorder"`
	BrandText        string `json:"brandText"`
	TitleText        string `json:"titleText"`
	Accent           string `json:"accent"`
	AccentText       string `json:"accentText"`
	RegularText      string `json:"regularText"`
	SKUBackground    string `json:"skuBackground"`
	SKUText          string `json:"skuText"`
}

// Palette is ThemeColors parsed
type Palette struct {
	Background       color.NRGBA
	HeaderBackground color.NRGBA
	HeaderText       color.NRGBA
	LabelBackground  color.NRGBA
	LabelText        color.NRGBA
	SloganBackground color.NRGBA
	SloganText       color.NRGBA
	CardBackground   color.NRGBA
	CardBorder       color.NRGBA
	BrandText        color.NRGBA
	TitleText        color.NRGBA
	Accent           color.NRGBA
	AccentText       color.NRGBA
	RegularText      color.NRGBA
	SKUBackground    color.NRGBA
	SKUText          color.NRGBA
}

// ThemeAssets are references resolved by the asset store (path, URL or drive://id)
type ThemeAssets struct {
	Logo        string `json:"logo"`
	HeaderImage string `json:"headerImage"`
}

// FontSpec references a TrueType/OpenType font. Empty Source uses the embedded Go font.
type FontSpec struct {
	Source string  `json:"source"`
	Style  string  `json:"style"` // "bold" or "regular", only for the embedded font
	Size   float64 `json:"size"`
}

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type HeaderLayout struct {
	Height         int     `json:"height"`
	OverlayOpacity float64 `json:"overlayOpacity"`
	LogoBox        Rect    `json:"logoBox"`
	LogoShape      string  `json:"logoShape"` // circle | rounded
	TitleY         int     `json:"titleY"`
	LabelY         int     `json:"labelY"`
	LabelMargin    int     `json:"labelMargin"`
	LabelPadding   int     `json:"labelPadding"`
	StampX         int     `json:"stampX"`
	StampY         int     `json:"stampY"`
	StampFormat    string  `json:"stampFormat"`
	SloganBox      Rect    `json:"sloganBox"`
	SloganRadius   int     `json:"sloganRadius"`
}

type GridLayout struct {
	Columns      int `json:"columns"`
	Rows         int `json:"rows"`
	OriginX      int `json:"originX"`
	OriginY      int `json:"originY"`
	CellWidth    int `json:"cellWidth"`
	CellHeight   int `json:"cellHeight"`
	GutterX      int `json:"gutterX"`
	GutterY      int `json:"gutterY"`
	Padding      int `json:"padding"`
	CornerRadius int `json:"cornerRadius"`
	BorderWidth  int `json:"borderWidth"`
	ImageSize    int `json:"imageSize"`
	PriceBoxH    int `json:"priceBoxHeight"`
}

type TextRules struct {
	BrandMaxChars int     `json:"brandMaxChars"`
	TitleMaxLines int     `json:"titleMaxLines"`
	TitleMinSize  float64 `json:"titleMinSize"`
	TitleStep     float64 `json:"titleStep"`
}

type OutputFormat struct {
	Format  string `json:"format"` // jpeg | png
	Quality int    `json:"quality"`
}

// Extension returns the page file extension for the format
func (o OutputFormat) Extension() string {
	if o.Format == "png" {
		return "png"
	}
	return "jpg"
}
