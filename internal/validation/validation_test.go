package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeybee/attendance-engine/internal/validation"
)

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()

	workbook := filepath.Join(tmpDir, "Facility.XLSX")
	require.NoError(t, os.WriteFile(workbook, []byte("test"), 0600))
	statement := filepath.Join(tmpDir, "statement.pdf")
	require.NoError(t, os.WriteFile(statement, []byte("test"), 0600))

	tests := []struct {
		name        string
		path        string
		allowed     []string
		expectError bool
		errContains string
	}{
		{name: "spreadsheet, extension case ignored", path: workbook, allowed: validation.SpreadsheetExtensions},
		{name: "pdf allowed", path: statement, allowed: []string{validation.ExtPDF, validation.ExtXLSX}},
		{name: "any extension", path: statement},
		{name: "wrong extension", path: statement, allowed: validation.SpreadsheetExtensions, expectError: true, errContains: "unsupported file type"},
		{name: "missing", path: filepath.Join(tmpDir, "missing.xlsx"), expectError: true, errContains: "path does not exist"},
		{name: "directory", path: tmpDir, expectError: true, errContains: "not a regular file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidInputFile(tt.path, tt.allowed...)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.NoError(t, validation.IsValidOutputFormat("xlsx"))
	assert.NoError(t, validation.IsValidOutputFormat("csv"))

	err := validation.IsValidOutputFormat("json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report format")
}

func TestIsValidFilePermissions(t *testing.T) {
	tests := []struct {
		mode        os.FileMode
		expectError bool
	}{
		{0600, false},
		{0640, false},
		{0644, true},
		{0777, true},
	}
	for _, tt := range tests {
		err := validation.IsValidFilePermissions(tt.mode)
		if tt.expectError {
			assert.Error(t, err, tt.mode.String())
		} else {
			assert.NoError(t, err, tt.mode.String())
		}
	}
}
