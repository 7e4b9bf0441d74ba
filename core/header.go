package core

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// headerOut is where headers go. Stdout carries the report itself.
var headerOut io.Writer = os.Stderr

// emoji returns the icon followed by a space when emojis are enabled.
func emoji(cfg *contract.Config, icon string) string {
	if !cfg.UseEmojis {
		return ""
	}
	return icon + " "
}

// windowLabel renders a month range such as "Jan 2025 → Apr 2025".
func windowLabel(months []schema.Month) string {
	if len(months) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s → %s", months[0].Label(), months[len(months)-1].Label())
}

// logAnalysisHeader prints a concise, 2-line header for each analysis.
func logAnalysisHeader(cfg *contract.Config, command string) {
	_, _ = fmt.Fprintf(headerOut, "%sData: %s (Command: %s, Source: %s, By: %s)\n",
		emoji(cfg, "🔎"), cfg.DataDir, command, cfg.Source, cfg.GroupBy)
	_, _ = fmt.Fprintf(headerOut, "%sWindow: %s (%d months)\n",
		emoji(cfg, "📅"), windowLabel(cfg.Window), len(cfg.Window))
}

// logBaselineHeader prints the baseline range of an efficiency run.
func logBaselineHeader(cfg *contract.Config) {
	_, _ = fmt.Fprintf(headerOut, "%sBaseline: %s (%d months)\n",
		emoji(cfg, "📊"), windowLabel(cfg.BaselineMonths), len(cfg.BaselineMonths))
}
