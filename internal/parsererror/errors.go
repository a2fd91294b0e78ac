// Package parsererror defines the typed errors raised while reading and
// reconciling the facility, agency and roster sources.
package parsererror

import (
	"fmt"
	"strings"
)

// FormatError reports a source document whose required header or date pattern
// is missing or cannot be interpreted. It is fatal for a run.
type FormatError struct {
	Source   string
	FilePath string
	Expected string
	Msg      string
	Err      error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: invalid format", e.Source)
	if e.FilePath != "" {
		fmt.Fprintf(&b, " in '%s'", e.FilePath)
	}
	fmt.Fprintf(&b, ": %s", e.Msg)
	if e.Expected != "" {
		fmt.Fprintf(&b, ". Expected: %s", e.Expected)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports a required column absent from an input table.
type MissingColumnError struct {
	Source   string
	FilePath string
	Column   string
}

func (e *MissingColumnError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: required column '%s' not found in '%s'", e.Source, e.Column, e.FilePath)
	}
	return fmt.Sprintf("%s: required column '%s' not found", e.Source, e.Column)
}

// AmbiguousMatchError describes one payment identity that loosely matches
// several distinct attendance identities. Matches are pooled, so this error is
// only attached to a warning and never aborts a run.
type AmbiguousMatchError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("identity '%s' matches %d attendance identities: %s",
		e.Name, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// ParseError represents a failure to read a value or a whole workbook.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
