package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"flyer-builder/logger"
	"flyer-builder/models"
)

// SheetsService reads products from and writes links back to a Google Sheet
type SheetsService struct {
	client         *sheets.Service
	spreadsheetID  string
	readRange      string
	documentsRange string
}

// Ensure SheetsService implements RecordSource and ResultSink
var (
	_ RecordSource = (*SheetsService)(nil)
	_ ResultSink   = (*SheetsService)(nil)
)

// NewSheetsService creates a new SheetsService. documentsRange is optional.
func NewSheetsService(ctx context.Context, spreadsheetID, readRange, documentsRange string, opts ...option.ClientOption) (*SheetsService, error) {
	client, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsService{
		client:         client,
		spreadsheetID:  spreadsheetID,
		readRange:      readRange,
		documentsRange: documentsRange,
	}, nil
}

// LoadTable reads the configured range; the first row is the header
func (s *SheetsService) LoadTable(ctx context.Context) (*models.SheetTable, error) {
	log := logger.FromContext(ctx)
	log.Info("📥 Reading sheet", zap.String("sheet", s.spreadsheetID), zap.String("range", s.readRange))

	resp, err := s.client.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	table := valuesToTable(resp.Values)
	log.Info("✓ Sheet loaded", zap.Int("rows", len(table.Rows)), zap.Int("columns", len(table.Header)))
	return table, nil
}

// WriteResults rewrites the sheet with the link column set, then the documents range when configured
func (s *SheetsService) WriteResults(ctx context.Context, table *models.SheetTable, result *models.RunResult) error {
	log := logger.FromContext(ctx)
	out := resultTable(table, result)
	sheet := sheetName(s.readRange)

	if _, err := s.client.Spreadsheets.Values.Clear(s.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}
	_, err := s.client.Spreadsheets.Values.Update(s.spreadsheetID, sheet+"!A1", &sheets.ValueRange{
		Values: tableToValues(out),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}
	log.Info("✓ Links written to sheet", zap.String("column", LinkColumn), zap.Int("rows", len(out.Rows)))

	if s.documentsRange == "" {
		return nil
	}

	values := [][]interface{}{{"grupo", "url", "paginas"}}
	for _, d := range result.Documents {
		values = append(values, []interface{}{d.GroupKey, d.URL, d.PageCount})
	}
	if _, err := s.client.Spreadsheets.Values.Clear(s.spreadsheetID, s.documentsRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear documents range: %w", err)
	}
	_, err = s.client.Spreadsheets.Values.Update(s.spreadsheetID, s.documentsRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update documents range: %w", err)
	}
	return nil
}

// sheetName strips the cell part of an A1 range ("Hoja1!A1:H" -> "Hoja1")
func sheetName(a1 string) string {
	name, _, _ := strings.Cut(a1, "!")
	return name
}

func valuesToTable(values [][]interface{}) *models.SheetTable {
	table := &models.SheetTable{}
	if len(values) == 0 {
		return table
	}
	for _, v := range values[0] {
		table.Header = append(table.Header, cellText(v))
	}
	for _, raw := range values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = cellText(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func tableToValues(table *models.SheetTable) [][]interface{} {
	values := make([][]interface{}, 0, len(table.Rows)+1)
	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, row := range table.Rows {
		out := make([]interface{}, len(row))
		for i, v := range row {
			out[i] = v
		}
		values = append(values, out)
	}
	return values
}

func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
