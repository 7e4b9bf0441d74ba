package outwriter

import (
	"os"

	"github.com/huangsam/uptake/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableNameWidth calculates the maximum width of the entity column in
// table output, given how many other columns share the row.
func GetMaxTableNameWidth(cfg *contract.Config, otherColumns int) int {
	// Roughly nine characters per column with borders and padding
	baseWidth := otherColumns*9 + 10

	available := terminalWidth(cfg) - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
