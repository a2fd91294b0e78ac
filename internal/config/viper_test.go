package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"HONEYBEE_LOG_LEVEL",
	"HONEYBEE_LOG_FORMAT",
	"HONEYBEE_FACILITY_HEADER_ROW",
	"HONEYBEE_FACILITY_SKIP_SUBHEADER",
	"HONEYBEE_MATCHING_ALGORITHM",
	"HONEYBEE_MATCHING_THRESHOLD",
	"HONEYBEE_REPORT_FORMAT",
	"HONEYBEE_REPORT_SHEET_NAME",
	"HONEYBEE_REPORT_COLUMN_PADDING",
	"HONEYBEE_PARSERS_PDF_PDFTOTEXT_PATH",
	"HONEYBEE_PARSERS_PDF_LAYOUT",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, 9, config.Facility.HeaderRow)
	assert.True(t, config.Facility.SkipSubheader)
	assert.Equal(t, "levenshtein", config.Matching.Algorithm)
	assert.Equal(t, 0.85, config.Matching.Threshold)
	assert.Equal(t, "xlsx", config.Report.Format)
	assert.Equal(t, "Sheet1", config.Report.SheetName)
	assert.Equal(t, 4, config.Report.ColumnPadding)
	assert.Equal(t, "pdftotext", config.Parsers.PDF.PdftotextPath)
	assert.False(t, config.Parsers.PDF.Layout)
}

func TestDefault_MatchesInitializeConfig(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	loaded, err := InitializeConfig("")
	require.NoError(t, err)
	assert.Equal(t, loaded, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("HONEYBEE_LOG_LEVEL", "debug")
	t.Setenv("HONEYBEE_MATCHING_ALGORITHM", "sequence")
	t.Setenv("HONEYBEE_MATCHING_THRESHOLD", "0.9")
	t.Setenv("HONEYBEE_REPORT_FORMAT", "csv")
	t.Setenv("HONEYBEE_PARSERS_PDF_LAYOUT", "true")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "sequence", config.Matching.Algorithm)
	assert.Equal(t, 0.9, config.Matching.Threshold)
	assert.Equal(t, "csv", config.Report.Format)
	assert.True(t, config.Parsers.PDF.Layout)
}

func TestInitializeConfig_ConfigFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	chdir(t, dir)

	content := `
log:
  level: warn
  format: json
facility:
  header_row: 7
report:
  column_padding: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	t.Setenv("HONEYBEE_LOG_LEVEL", "error")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level) // env wins over file
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 7, config.Facility.HeaderRow)
	assert.Equal(t, 2, config.Report.ColumnPadding)
}

func TestInitializeConfig_ExplicitFileMissing(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"header row zero", func(c *Config) { c.Facility.HeaderRow = 0 }, "facility.header_row"},
		{"unknown algorithm", func(c *Config) { c.Matching.Algorithm = "soundex" }, "invalid matching algorithm"},
		{"threshold zero", func(c *Config) { c.Matching.Threshold = 0 }, "matching.threshold"},
		{"threshold above one", func(c *Config) { c.Matching.Threshold = 1.2 }, "matching.threshold"},
		{"unknown report format", func(c *Config) { c.Report.Format = "pdf" }, "invalid report format"},
		{"negative padding", func(c *Config) { c.Report.ColumnPadding = -1 }, "report.column_padding"},
		{"empty sheet name", func(c *Config) { c.Report.SheetName = "" }, "report.sheet_name"},
		{"empty pdftotext path", func(c *Config) { c.Parsers.PDF.PdftotextPath = "" }, "pdftotext_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.NoError(t, validateConfig(Default()))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, "debug", logger.GetLevel().String())

	config.Log.Level = "WARN"
	assert.Equal(t, "warning", ConfigureLoggingFromConfig(config).GetLevel().String())

	config.Log.Level = "loud"
	assert.Equal(t, "info", ConfigureLoggingFromConfig(config).GetLevel().String())
}
