package spreadsheet

import (
	"strings"

	"honeybee/attendance-engine/internal/parsererror"
)

// Normalizer canonicalizes a header cell before lookup.
type Normalizer func(string) string

// UpperTrim trims and upper-cases a header.
func UpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Exact trims a header and otherwise keeps it as written.
func Exact(s string) string {
	return strings.TrimSpace(s)
}

// Header indexes the cells of a header row.
type Header struct {
	Cells     []string
	normalize Normalizer
	index     map[string]int
}

// NewHeader indexes row with the given normalizer. When a header repeats, the
// first occurrence wins.
func NewHeader(row []string, normalize Normalizer) *Header {
	if normalize == nil {
		normalize = Exact
	}
	h := &Header{
		Cells:     make([]string, len(row)),
		normalize: normalize,
		index:     make(map[string]int, len(row)),
	}
	for i, cell := range row {
		name := normalize(cell)
		h.Cells[i] = name
		if name == "" {
			continue
		}
		if _, seen := h.index[name]; !seen {
			h.index[name] = i
		}
	}
	return h
}

// Index returns the column of name, or -1.
func (h *Header) Index(name string) int {
	if i, ok := h.index[h.normalize(name)]; ok {
		return i
	}
	return -1
}

// Require resolves every name to a column. The first absent column is
// reported as a MissingColumnError.
func (h *Header) Require(source, filePath string, names ...string) (map[string]int, error) {
	cols := make(map[string]int, len(names))
	for _, name := range names {
		i := h.Index(name)
		if i < 0 {
			return nil, &parsererror.MissingColumnError{Source: source, FilePath: filePath, Column: name}
		}
		cols[name] = i
	}
	return cols, nil
}
