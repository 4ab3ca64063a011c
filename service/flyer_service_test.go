package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyer-builder/flyer"
	"flyer-builder/models"
)

const baseURL = "https://user.github.io/flyers/"

func fixedNow() time.Time {
	return time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
}

func records(group string, n int) []models.ProductRecord {
	out := make([]models.ProductRecord, n)
	for i := range out {
		out[i] = models.ProductRecord{
			GroupKey:     group,
			Brand:        "Marca",
			Title:        fmt.Sprintf("Producto %d", i+1),
			RegularPrice: "19990",
			SalePrice:    "14990",
			SKU:          fmt.Sprintf("SKU-%02d", i+1),
		}
	}
	return out
}

type failingBundler struct {
	inner Bundler
	group string
}

func (b failingBundler) Bundle(ctx context.Context, groupKey string, pages []models.FlyerPage) (*models.Document, error) {
	if groupKey == b.group {
		return nil, errors.New("disk full")
	}
	return b.inner.Bundle(ctx, groupKey, pages)
}

type recordingSink struct {
	table  *models.SheetTable
	result *models.RunResult
	err    error
}

func (s *recordingSink) WriteResults(_ context.Context, table *models.SheetTable, result *models.RunResult) error {
	s.table, s.result = table, result
	return s.err
}

type staticSource struct {
	table *models.SheetTable
}

func (s staticSource) LoadTable(context.Context) (*models.SheetTable, error) {
	return s.table, nil
}

func newTestService(t *testing.T, deps FlyerServiceDeps) (*FlyerService, string) {
	t.Helper()
	dir := t.TempDir()
	writer := NewPageWriter(dir, baseURL)
	deps.Composer = flyer.NewComposer(nil, nil, flyer.WithClock(fixedNow))
	deps.Writer = writer
	if deps.Bundler == nil {
		deps.Bundler = NewPDFBundler(writer, "catalogo")
	} else if fb, ok := deps.Bundler.(failingBundler); ok {
		fb.inner = NewPDFBundler(writer, "catalogo")
		deps.Bundler = fb
	}
	deps.Clock = fixedNow
	return NewFlyerService(deps), dir
}

func TestRunRendersPagesDocumentsAndLinks(t *testing.T) {
	svc, dir := newTestService(t, FlyerServiceDeps{ContinueOnError: true})

	input := records("Tienda Centro", 13)
	input = append(input, records("   ", 1)...)
	input = append(input, records("Tienda Sur", 2)...)

	result, err := svc.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Pages, 4)
	assert.Equal(t, "tienda_centro_1.jpg", result.Pages[0].FileName)
	assert.Equal(t, "tienda_centro_3.jpg", result.Pages[2].FileName)
	assert.Equal(t, "tienda_sur_1.jpg", result.Pages[3].FileName)
	for _, p := range result.Pages {
		assert.FileExists(t, p.Path)
		assert.Nil(t, p.Image)
	}

	require.Len(t, result.Links, 16)
	for row := 0; row < 6; row++ {
		assert.Equal(t, baseURL+"tienda_centro_1.jpg", result.Links[row])
	}
	for row := 6; row < 12; row++ {
		assert.Equal(t, baseURL+"tienda_centro_2.jpg", result.Links[row])
	}
	assert.Equal(t, baseURL+"tienda_centro_3.jpg", result.Links[12])
	assert.Equal(t, "", result.Links[13])
	assert.Equal(t, baseURL+"tienda_sur_1.jpg", result.Links[14])
	assert.Equal(t, baseURL+"tienda_sur_1.jpg", result.Links[15])

	require.Len(t, result.Documents, 2)
	assert.Equal(t, 3, result.Documents[0].PageCount)
	assert.Equal(t, filepath.Join(dir, "catalogo_tienda_centro.pdf"), result.Documents[0].Path)

	f, r, err := pdf.Open(result.Documents[0].Path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 3, r.NumPage())

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Failures)
}

func TestRunKeepsGroupsWithSameSlugApart(t *testing.T) {
	svc, dir := newTestService(t, FlyerServiceDeps{ContinueOnError: true})

	input := records("Store A", 1)
	input = append(input, records("store-a", 1)...)

	result, err := svc.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Links, 2)
	assert.Equal(t, baseURL+"store_a_1.jpg", result.Links[0])
	assert.Equal(t, baseURL+"store_a-2_1.jpg", result.Links[1])
	assert.NotEqual(t, result.Links[0], result.Links[1])

	require.Len(t, result.Documents, 2)
	assert.Equal(t, "catalogo_store_a.pdf", result.Documents[0].FileName)
	assert.Equal(t, "catalogo_store_a-2.pdf", result.Documents[1].FileName)
	assert.FileExists(t, filepath.Join(dir, "store_a_1.jpg"))
	assert.FileExists(t, filepath.Join(dir, "store_a-2_1.jpg"))
}

func TestRunIsDeterministic(t *testing.T) {
	svc, dir := newTestService(t, FlyerServiceDeps{})

	_, err := svc.Run(context.Background(), records("A", 2))
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "a_1.jpg"))
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), records("A", 2))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "a_1.jpg"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunContinuesPastFailedGroup(t *testing.T) {
	svc, _ := newTestService(t, FlyerServiceDeps{
		Bundler:         failingBundler{group: "B"},
		ContinueOnError: true,
	})

	input := append(records("A", 1), records("B", 1)...)
	input = append(input, records("C", 1)...)

	result, err := svc.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "B", result.Failures[0].GroupKey)
	assert.Contains(t, result.Failures[0].Error, "disk full")
	assert.Len(t, result.Documents, 2)
	assert.Equal(t, baseURL+"a_1.jpg", result.Links[0])
	assert.Equal(t, "", result.Links[1])
	assert.Equal(t, baseURL+"c_1.jpg", result.Links[2])
}

func TestRunStopsOnFailedGroupWhenConfigured(t *testing.T) {
	svc, _ := newTestService(t, FlyerServiceDeps{Bundler: failingBundler{group: "B"}})

	input := append(records("A", 1), records("B", 1)...)
	input = append(input, records("C", 1)...)

	result, err := svc.Run(context.Background(), input)
	require.Error(t, err)
	require.NotNil(t, result)

	// completed groups stay valid
	assert.Len(t, result.Documents, 1)
	assert.Equal(t, baseURL+"a_1.jpg", result.Links[0])
	assert.Equal(t, "", result.Links[2])
}

func TestRunWithNoRecords(t *testing.T) {
	svc, _ := newTestService(t, FlyerServiceDeps{})

	result, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
	assert.Empty(t, result.Documents)
	assert.Empty(t, result.Links)
}

func TestGenerateWritesResultsToSink(t *testing.T) {
	table := &models.SheetTable{
		Header: []string{"tienda", "marca", "titulo", "precio", "precio_oferta", "codigo"},
		Rows: [][]string{
			{"Norte", "Oster", "Licuadora", "199.90", "149.90", "A1"},
			{"", "LG", "Monitor", "899", "", "B2"},
		},
	}
	sink := &recordingSink{err: errors.New("sheet locked")}
	drive := newFakeDrive()
	drive.failOn = "norte_1.jpg"

	svc, _ := newTestService(t, FlyerServiceDeps{
		Source:        staticSource{table: table},
		Sink:          sink,
		Drive:         drive,
		DriveFolderID: "folder",
		Mapping:       models.ColumnMapping{GroupColumn: "tienda"},
	})

	result, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet locked")
	require.NotNil(t, result)

	assert.Same(t, table, sink.table)
	assert.Equal(t, []string{baseURL + "norte_1.jpg", ""}, sink.result.Links)

	// a failed upload does not fail the group
	assert.Contains(t, drive.uploaded, "folder/catalogo_norte.pdf")
	assert.NotContains(t, drive.uploaded, "folder/norte_1.jpg")
}

func TestGenerateWithoutSource(t *testing.T) {
	svc, _ := newTestService(t, FlyerServiceDeps{})
	_, err := svc.Generate(context.Background())
	assert.Error(t, err)
}
