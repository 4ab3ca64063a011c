package service

import (
	"context"
	"errors"
	"fmt"

	"flyer-builder/models"
)

// LinkColumn is the column the flyer URL of each row is written to
const LinkColumn = "link_flyer"

// RecordSource loads the product table
type RecordSource interface {
	LoadTable(ctx context.Context) (*models.SheetTable, error)
}

// ResultSink receives the links and documents of a finished run
type ResultSink interface {
	WriteResults(ctx context.Context, table *models.SheetTable, result *models.RunResult) error
}

// MultiSink writes to every sink and joins their errors
type MultiSink []ResultSink

// Ensure MultiSink implements ResultSink
var _ ResultSink = MultiSink(nil)

func (m MultiSink) WriteResults(ctx context.Context, table *models.SheetTable, result *models.RunResult) error {
	var errs []error
	for _, sink := range m {
		if err := sink.WriteResults(ctx, table, result); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", sink, err))
		}
	}
	return errors.Join(errs...)
}

// resultTable returns a copy of table with the link column filled from result
func resultTable(table *models.SheetTable, result *models.RunResult) *models.SheetTable {
	out := table.Clone()
	out.SetColumn(LinkColumn, result.Links)
	return out
}
