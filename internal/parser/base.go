// Package parser provides the base parser functionality and the interfaces
// implemented by the facility, agency and roster readers.
package parser

import (
	"honeybee/attendance-engine/internal/logging"
)

// BaseParser carries the logger shared by every parser implementation.
//
// Parsers embed BaseParser to inherit it:
//
//	type MyParser struct {
//		parser.BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser for the named source. A nil logger is
// replaced by a default text logger at info level.
func NewBaseParser(source string, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	return BaseParser{
		logger: logger.WithField(logging.FieldParser, source),
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// LogDropped records rows skipped while reading a file.
func (b *BaseParser) LogDropped(filePath string, parsed, dropped int) {
	if dropped == 0 {
		b.logger.Debug("Parsed file",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldCount, Value: parsed})
		return
	}
	b.logger.Info("Parsed file with skipped rows",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: parsed},
		logging.Field{Key: logging.FieldDropped, Value: dropped})
}
