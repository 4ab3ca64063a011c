package models

// ProductRecord represents one sellable item read from the record source
type ProductRecord struct {
	Row          int    `json:"row"`      // Zero-based position in the source table
	GroupKey     string `json:"groupKey"` // e.g. store name
	Brand        string `json:"brand"`
	Title        string `json:"title"`
	ImageURL     string `json:"imageUrl"`
	RegularPrice any    `json:"regularPrice"`
	SalePrice    any    `json:"salePrice"`
	SKU          string `json:"sku"`
}

// ColumnMapping tells SheetTable which columns feed the normalized record fields.
// Empty values fall back to the alias table in utils.CanonicalColumn.
type ColumnMapping struct {
	GroupColumn  string `json:"groupColumn"`
	DefaultGroup string `json:"defaultGroup"`
}
