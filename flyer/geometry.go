package flyer

import (
	"image"

	"flyer-builder/models"
)

// CellPosition maps a batch index to its grid column and row (row-major)
func CellPosition(grid models.GridLayout, index int) (col, row int) {
	cols := grid.Columns
	if cols <= 0 {
		cols = 1
	}
	return index % cols, index / cols
}

// CellOrigin is the top-left corner of the cell at (col, row)
func CellOrigin(grid models.GridLayout, col, row int) image.Point {
	return image.Pt(
		grid.OriginX+col*(grid.CellWidth+grid.GutterX),
		grid.OriginY+row*(grid.CellHeight+grid.GutterY),
	)
}

// CellRect is the full card rectangle for a batch index
func CellRect(grid models.GridLayout, index int) image.Rectangle {
	col, row := CellPosition(grid, index)
	origin := CellOrigin(grid, col, row)
	return image.Rect(origin.X, origin.Y, origin.X+grid.CellWidth, origin.Y+grid.CellHeight)
}
