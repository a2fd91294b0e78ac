package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeybee/attendance-engine/internal/config"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/paymentparser"
	"honeybee/attendance-engine/internal/pdfparser"
)

func TestNewContainer(t *testing.T) {
	sequence := config.Default()
	sequence.Matching.Algorithm = "sequence"
	sequence.Matching.Threshold = 0.9

	badAlgorithm := config.Default()
	badAlgorithm.Matching.Algorithm = "soundex"

	badThreshold := config.Default()
	badThreshold.Matching.Threshold = 1.5

	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		errorMsg    string
	}{
		{name: "nil config", config: nil, expectError: true, errorMsg: "configuration cannot be nil"},
		{name: "defaults", config: config.Default()},
		{name: "sequence matcher", config: sequence},
		{name: "unknown algorithm", config: badAlgorithm, expectError: true, errorMsg: "identity matcher"},
		{name: "threshold out of range", config: badThreshold, expectError: true, errorMsg: "identity matcher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config, WithLogger(logging.NewMockLogger()))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetPipeline())
			assert.NotNil(t, c.GetEngine())
			assert.NotNil(t, c.GetReportGenerator())
			assert.NotNil(t, c.GetAttendanceParser())
			assert.NotNil(t, c.GetRosterParser())
			assert.Equal(t, tt.config, c.GetConfig())
			assert.Equal(t, tt.config.Matching.Threshold, c.GetMatcher().Threshold())
			assert.NoError(t, c.Close())
		})
	}
}

func TestContainer_PaymentParsers(t *testing.T) {
	c, err := NewContainer(config.Default(), WithPDFExtractor(pdfparser.NewMockPDFExtractor("", nil)))
	require.NoError(t, err)

	_, isTabular := c.GetPaymentParser(true).(*paymentparser.Parser)
	assert.True(t, isTabular, "daily runs read the tabular export")

	_, isRouter := c.GetPaymentParser(false).(*paymentparser.Router)
	assert.True(t, isRouter, "monthly runs route on file extension")
}

func TestContainer_UsesInjectedLogger(t *testing.T) {
	logger := logging.NewMockLogger()
	c, err := NewContainer(config.Default(), WithLogger(logger))
	require.NoError(t, err)

	assert.Same(t, logger, c.GetLogger())
	assert.True(t, logger.HasEntry("DEBUG", "Container initialized"))
}

func TestContainer_DefaultLoggerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "ERROR"
	cfg.Log.Format = "json"

	c, err := NewContainer(cfg, WithPDFExtractor(pdfparser.NewMockPDFExtractor("", nil)))
	require.NoError(t, err)
	assert.IsType(t, &logging.LogrusAdapter{}, c.GetLogger())
}
