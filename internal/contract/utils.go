package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/uptake/schema"
)

// Color variables for console output.
var (
	DecliningColor = color.New(color.FgRed, color.Bold)  // DecliningColor flags stagnant or declining entities.
	GrowingColor   = color.New(color.FgGreen)            // GrowingColor marks healthy growth.
	FullColor      = color.New(color.FgCyan, color.Bold) // FullColor marks entities at 100% adoption.
	MutedColor     = color.New(color.FgYellow)           // MutedColor is for statuses without enough signal.
)

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(status schema.AdoptionStatus, text string) string {
	switch status {
	case schema.StatusStagnant:
		return DecliningColor.Sprint(text)
	case schema.StatusGrowing:
		return GrowingColor.Sprint(text)
	case schema.StatusFullAdopter:
		return FullColor.Sprint(text)
	default:
		return MutedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".uptake_cache.db"
	}
	return filepath.Join(homeDir, ".uptake_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".uptake_analysis.db"
	}
	return filepath.Join(homeDir, ".uptake_analysis.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
