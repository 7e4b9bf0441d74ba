// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTrends prints a trend report using the configured output format.
func (ow *OutWriter) WriteTrends(report schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendResults(report, cfg, duration)
}

// WriteAdoption prints an adoption report using the configured output format.
func (ow *OutWriter) WriteAdoption(report schema.AdoptionReport, cfg *contract.Config, duration time.Duration) error {
	return PrintAdoptionResults(report, cfg, duration)
}

// WriteEfficiency prints an efficiency report using the configured output format.
func (ow *OutWriter) WriteEfficiency(report schema.EfficiencyReport, cfg *contract.Config, duration time.Duration) error {
	return PrintEfficiencyResults(report, cfg, duration)
}

// WriteQuality prints a quality report using the configured output format.
func (ow *OutWriter) WriteQuality(report schema.QualityReport, cfg *contract.Config, duration time.Duration) error {
	return PrintQualityResults(report, cfg, duration)
}

// WriteSummary prints the user monthly summary using the configured output format.
func (ow *OutWriter) WriteSummary(rows []schema.UserMonthlySummary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummaryResults(rows, cfg, duration)
}
