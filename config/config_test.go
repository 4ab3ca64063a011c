package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCE", "xlsx")
	t.Setenv("XLSX_PATH", "products.xlsx")
	t.Setenv("FETCH_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "catalogo", cfg.DocumentPrefix)
	assert.Equal(t, BundlePDF, cfg.BundleEngine)
	assert.True(t, cfg.ContinueOnError)
	assert.NoError(t, cfg.Validate())
}

func TestFetchTimeoutIsClamped(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
	}{
		{value: "1", want: 5 * time.Second},
		{value: "7s", want: 7 * time.Second},
		{value: "2m", want: 10 * time.Second},
		{value: "garbage", want: 10 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("FETCH_TIMEOUT", tc.value)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.FetchTimeout)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Source: SourceSheets, BundleEngine: BundlePDF}
	assert.ErrorContains(t, cfg.Validate(), "SHEET_ID")

	cfg.SheetID = "sheet"
	assert.ErrorContains(t, cfg.Validate(), "GOOGLE_SHEETS_JSON")

	cfg.SheetsJSON = "{}"
	assert.NoError(t, cfg.Validate())

	cfg.BundleEngine = "tiff"
	assert.ErrorContains(t, cfg.Validate(), "BUNDLE_ENGINE")

	cfg = Config{Source: "ftp", BundleEngine: BundlePDF}
	assert.ErrorContains(t, cfg.Validate(), "unknown SOURCE")
}
