package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
	"gopkg.in/yaml.v3"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML is the YAML counterpart of writeJSON.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// Undefined ratios render as an empty string.
func createFormatters(precision int) (fmtRatio func(schema.Ratio) string, fmtFloat func(float64) string) {
	fmtRatio = func(r schema.Ratio) string {
		return r.Format(precision)
	}
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtRatio, fmtFloat
}

// fmtPtr formats an optional value the way fmtRatio formats a Ratio.
func fmtPtr(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

// writers holds the per-format renderers of one report.
type writers struct {
	text    func(io.Writer) error
	csv     func(io.Writer) error
	data    any // encoded as JSON or YAML
	parquet func(io.Writer) error
}

// dispatch routes a report to the writer for the configured output mode.
// Modes without a writer are rejected.
func dispatch(cfg *contract.Config, what string, ws writers) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, ws.data) }, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeYAML(w, ws.data) }, "Wrote YAML")
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, ws.csv, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	case schema.ParquetOut:
		if ws.parquet == nil {
			return fmt.Errorf("parquet output is not available for %s", what)
		}
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		return writeWithFile(cfg.OutputFile, ws.parquet, "Wrote Parquet")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, ws.text, "Wrote table")
	}
}
