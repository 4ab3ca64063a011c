package utils

import (
	"strings"
)

// Canonical record fields
const (
	FieldBrand        = "brand"
	FieldTitle        = "title"
	FieldImageURL     = "image_url"
	FieldRegularPrice = "regular_price"
	FieldSalePrice    = "sale_price"
	FieldSKU          = "sku"
	FieldStore        = "store"
)

// CanonicalColumn maps a sheet header to its canonical field name.
// Input is normalized to lowercase before mapping; unknown headers are returned normalized.
func CanonicalColumn(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, " ", "_")

	columnMap := map[string]string{
		"brand":          FieldBrand,
		"marca":          FieldBrand,
		"title":          FieldTitle,
		"titulo":         FieldTitle,
		"título":         FieldTitle,
		"nombre":         FieldTitle,
		"producto":       FieldTitle,
		"image_url":      FieldImageURL,
		"image_link":     FieldImageURL,
		"imagen":         FieldImageURL,
		"url_imagen":     FieldImageURL,
		"regular_price":  FieldRegularPrice,
		"price":          FieldRegularPrice,
		"precio":         FieldRegularPrice,
		"precio_regular": FieldRegularPrice,
		"sale_price":     FieldSalePrice,
		"precio_oferta":  FieldSalePrice,
		"precio_promo":   FieldSalePrice,
		"sku":            FieldSKU,
		"id":             FieldSKU,
		"codigo":         FieldSKU,
		"código":         FieldSKU,
		"articulo":       FieldSKU,
		"artículo":       FieldSKU,
		"store":          FieldStore,
		"tienda":         FieldStore,
	}

	if field, exists := columnMap[key]; exists {
		return field
	}
	return key
}
