package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"flyer-builder/logger"
	"flyer-builder/models"
)

const documentsSheet = "documentos"

// XLSXService reads products from a local workbook and exports results to another
type XLSXService struct {
	path        string
	sheet       string
	resultsPath string
}

// Ensure XLSXService implements RecordSource and ResultSink
var (
	_ RecordSource = (*XLSXService)(nil)
	_ ResultSink   = (*XLSXService)(nil)
)

// NewXLSXService creates a new XLSXService. An empty sheet reads the first one.
func NewXLSXService(path, sheet, resultsPath string) *XLSXService {
	return &XLSXService{path: path, sheet: sheet, resultsPath: resultsPath}
}

// LoadTable reads the sheet; the first row is the header
func (s *XLSXService) LoadTable(ctx context.Context) (*models.SheetTable, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	table := &models.SheetTable{}
	if len(rows) > 0 {
		table.Header = rows[0]
		table.Rows = rows[1:]
	}
	logger.FromContext(ctx).Info("✓ Workbook loaded",
		zap.String("path", s.path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}

// WriteResults exports the table with its link column and a documents sheet
func (s *XLSXService) WriteResults(ctx context.Context, table *models.SheetTable, result *models.RunResult) error {
	if s.resultsPath == "" {
		return fmt.Errorf("results workbook path not configured")
	}
	out := resultTable(table, result)

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if s.sheet != "" {
		if err := f.SetSheetName(sheet, s.sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
		sheet = s.sheet
	}

	for i, h := range out.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range out.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if _, err := f.NewSheet(documentsSheet); err != nil {
		return fmt.Errorf("failed to add documents sheet: %w", err)
	}
	for i, h := range []string{"grupo", "archivo", "url", "paginas"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(documentsSheet, cell, h)
	}
	for i, d := range result.Documents {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(documentsSheet, cell, value)
		}
		set(1, d.GroupKey)
		set(2, d.FileName)
		set(3, d.URL)
		set(4, d.PageCount)
	}

	if err := os.MkdirAll(filepath.Dir(s.resultsPath), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(s.resultsPath); err != nil {
		return fmt.Errorf("failed to save results workbook: %w", err)
	}
	logger.FromContext(ctx).Info("✓ Results workbook written", zap.String("path", s.resultsPath))
	return nil
}
