package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"honeybee/attendance-engine/internal/parsererror"
)

// DefaultPdftotextPath is the extraction binary looked up on PATH.
const DefaultPdftotextPath = "pdftotext"

// PDFExtractor extracts the text of a PDF document. Pages in the returned
// text are separated by form feeds.
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// RealPDFExtractor runs the pdftotext command and reads its standard output.
type RealPDFExtractor struct {
	Path   string
	Layout bool
}

// NewRealPDFExtractor creates an extractor for the given binary. An empty path
// uses pdftotext from PATH. Layout mode keeps the physical column layout.
func NewRealPDFExtractor(path string, layout bool) *RealPDFExtractor {
	if path == "" {
		path = DefaultPdftotextPath
	}
	return &RealPDFExtractor{Path: path, Layout: layout}
}

// ExtractText implements PDFExtractor.
func (e *RealPDFExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	args := []string{"-enc", "UTF-8"}
	if e.Layout {
		args = append(args, "-layout")
	}
	args = append(args, pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, args...) // #nosec G204 -- binary comes from configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := "pdftotext failed"
		if stderr.Len() > 0 {
			msg = fmt.Sprintf("pdftotext failed: %s", bytes.TrimSpace(stderr.Bytes()))
		}
		return "", &parsererror.FormatError{Source: source, FilePath: pdfPath, Msg: msg, Err: err}
	}
	return stdout.String(), nil
}

// MockPDFExtractor returns canned text, for tests.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	// Calls records the paths passed to ExtractText.
	Calls []string
}

// NewMockPDFExtractor creates a MockPDFExtractor with the given text or error.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{
		MockText: mockText,
		MockErr:  mockErr,
	}
}

// ExtractText returns the canned text or error.
func (e *MockPDFExtractor) ExtractText(_ context.Context, pdfPath string) (string, error) {
	e.Calls = append(e.Calls, pdfPath)
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
