package models

import (
	"strings"

	"flyer-builder/utils"
)

// SheetTable is the raw tabular data read from a record source.
// Rows keep their original order; Row positions in ProductRecord index into Rows.
type SheetTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ColumnIndex returns the index of the first header that maps to the given
// canonical field (or matches it literally), or -1.
func (t *SheetTable) ColumnIndex(field string) int {
	want := strings.ToLower(strings.TrimSpace(field))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	canonical := utils.CanonicalColumn(field)
	for i, h := range t.Header {
		if utils.CanonicalColumn(h) == canonical {
			return i
		}
	}
	return -1
}

// Records adapts the heterogeneous sheet columns into normalized product records
func (t *SheetTable) Records(mapping ColumnMapping) []ProductRecord {
	brandIdx := t.ColumnIndex(utils.FieldBrand)
	titleIdx := t.ColumnIndex(utils.FieldTitle)
	imageIdx := t.ColumnIndex(utils.FieldImageURL)
	regularIdx := t.ColumnIndex(utils.FieldRegularPrice)
	saleIdx := t.ColumnIndex(utils.FieldSalePrice)
	skuIdx := t.ColumnIndex(utils.FieldSKU)

	groupIdx := -1
	if mapping.GroupColumn != "" {
		groupIdx = t.ColumnIndex(mapping.GroupColumn)
	}

	records := make([]ProductRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := ProductRecord{
			Row:          i,
			Brand:        cell(row, brandIdx),
			Title:        cell(row, titleIdx),
			ImageURL:     cell(row, imageIdx),
			RegularPrice: cell(row, regularIdx),
			SalePrice:    cell(row, saleIdx),
			SKU:          cell(row, skuIdx),
		}
		if mapping.GroupColumn == "" {
			rec.GroupKey = mapping.DefaultGroup
		} else {
			rec.GroupKey = cell(row, groupIdx)
		}
		records = append(records, rec)
	}
	return records
}

// SetColumn replaces the named column (adding it when missing) with values.
// Rows shorter than the header are padded.
func (t *SheetTable) SetColumn(name string, values []string) {
	idx := -1
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Header = append(t.Header, name)
		idx = len(t.Header) - 1
	}
	for i := range t.Rows {
		for len(t.Rows[i]) < len(t.Header) {
			t.Rows[i] = append(t.Rows[i], "")
		}
		if i < len(values) {
			t.Rows[i][idx] = values[i]
		} else {
			t.Rows[i][idx] = ""
		}
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Clone returns a deep copy of the table
func (t *SheetTable) Clone() *SheetTable {
	out := &SheetTable{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
