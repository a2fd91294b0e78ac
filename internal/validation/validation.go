// Package validation checks user-supplied paths and formats before a run.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Input file extensions.
const (
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
	ExtPDF  = ".pdf"
)

// SpreadsheetExtensions are accepted for facility, tabular agency and roster
// inputs.
var SpreadsheetExtensions = []string{ExtXLSX, ExtXLS}

// IsValidInputFile checks that path is an existing regular file whose
// extension is one of allowed, ignoring case. An empty allowed list accepts
// any extension.
func IsValidInputFile(path string, allowed ...string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	if len(allowed) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q for %s (expected one of %s)", ext, path, strings.Join(allowed, ", "))
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "xlsx", "csv":
		return nil
	default:
		return fmt.Errorf("invalid report format: %s (must be 'xlsx' or 'csv')", format)
	}
}

// IsValidFilePermissions rejects modes that grant any access to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
