package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Source kinds
const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"
)

// Bundle engines
const (
	BundlePDF    = "pdf"
	BundleChrome = "chrome"
)

type Config struct {
	Env         string
	Port        string
	LogLevel    string
	ServiceName string

	OutputDir      string
	BaseURL        string
	DocumentPrefix string
	BundleEngine   string
	ChromePath     string
	ThemesPath     string
	AssetDir       string

	Source          string
	SheetID         string
	SheetRange      string
	DocumentsRange  string
	SheetsJSON      string
	CredentialsPath string
	XLSXPath        string
	XLSXSheet       string
	ResultsXLSX     string
	GroupColumn     string
	DefaultGroup    string

	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchMaxBytes    int64
	ContinueOnError  bool

	DatabaseURL         string
	DriveOutputFolderID string
}

// Load reads configuration from the environment
func Load() (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:         getEnv("ENV", "development"),
		Port:        strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "flyer-builder"),

		OutputDir:      getEnv("OUTPUT_DIR", filepath.Join(cwd, "docs", "flyers")),
		BaseURL:        getEnv("BASE_URL", ""),
		DocumentPrefix: getEnv("DOCUMENT_PREFIX", "catalogo"),
		BundleEngine:   strings.ToLower(getEnv("BUNDLE_ENGINE", BundlePDF)),
		ChromePath:     getEnv("CHROME_PATH", ""),
		ThemesPath:     getEnv("THEMES_PATH", ""),
		AssetDir:       getEnv("ASSET_DIR", cwd),

		Source:          strings.ToLower(getEnv("SOURCE", SourceSheets)),
		SheetID:         getEnv("SHEET_ID", ""),
		SheetRange:      getEnv("SHEET_RANGE", "Sheet1"),
		DocumentsRange:  getEnv("DOCUMENTS_RANGE", ""),
		SheetsJSON:      getEnv("GOOGLE_SHEETS_JSON", ""),
		CredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		XLSXPath:        getEnv("XLSX_PATH", ""),
		XLSXSheet:       getEnv("XLSX_SHEET", ""),
		ResultsXLSX:     getEnv("RESULTS_XLSX", ""),
		GroupColumn:     getEnv("GROUP_COLUMN", ""),
		DefaultGroup:    getEnv("DEFAULT_GROUP", "flyers"),

		FetchTimeout:     clampDuration(getEnvDuration("FETCH_TIMEOUT", 10*time.Second), 5*time.Second, 10*time.Second),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 6),
		FetchMaxBytes:    int64(getEnvInt("FETCH_MAX_BYTES", 15<<20)),
		ContinueOnError:  getEnvBool("CONTINUE_ON_ERROR", true),

		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DriveOutputFolderID: getEnv("DRIVE_OUTPUT_FOLDER_ID", ""),
	}

	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 1
	}

	return cfg, nil
}

// Validate checks the settings the selected source and bundle engine depend on
func (c Config) Validate() error {
	switch c.Source {
	case SourceSheets:
		if err := c.requireValue("SHEET_ID", c.SheetID); err != nil {
			return err
		}
		if strings.TrimSpace(c.SheetsJSON) == "" && strings.TrimSpace(c.CredentialsPath) == "" {
			return fmt.Errorf("missing required env var: GOOGLE_SHEETS_JSON or GOOGLE_APPLICATION_CREDENTIALS")
		}
	case SourceXLSX:
		if err := c.requireValue("XLSX_PATH", c.XLSXPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown SOURCE %q (expected %s or %s)", c.Source, SourceSheets, SourceXLSX)
	}

	switch c.BundleEngine {
	case BundlePDF, BundleChrome:
	default:
		return fmt.Errorf("unknown BUNDLE_ENGINE %q (expected %s or %s)", c.BundleEngine, BundlePDF, BundleChrome)
	}
	return nil
}

// requireValue fails when value is blank
func (c Config) requireValue(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// HasGoogleCredentials reports whether any Google credential is configured
func (c Config) HasGoogleCredentials() bool {
	return strings.TrimSpace(c.SheetsJSON) != "" || strings.TrimSpace(c.CredentialsPath) != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvDuration accepts Go durations ("8s") or plain seconds ("8")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
