package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mdrcp/mdrcp/internal/service/deploy"
)

// Summary format names accepted by --summary and the defaults file.
const (
	formatText       = "text"
	formatJSON       = "json"
	formatJSONPretty = "json-pretty"
)

// renderSummary writes the run summary to the provided writer. Quiet mode
// suppresses the text rendering only: machine-readable output is always
// emitted because a consumer explicitly asked for it.
func renderSummary(w io.Writer, summary *deploy.Summary, format string, quiet bool) error {
	switch format {
	case formatJSON:
		return renderJSON(w, summary, false)
	case formatJSONPretty:
		return renderJSON(w, summary, true)
	case formatText, "":
		if quiet {
			return nil
		}

		renderText(w, summary)

		return nil
	default:
		return fmt.Errorf("unknown summary format %q", format)
	}
}

func renderJSON(w io.Writer, summary *deploy.Summary, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	return nil
}

func renderText(w io.Writer, summary *deploy.Summary) {
	fmt.Fprintf(w, "Copied %d executable(s) to %s\n", summary.CopiedCount, summary.TargetDir)

	for _, binary := range summary.CopiedBinaries {
		fmt.Fprintf(w, "  %s\n", binary)
	}

	for _, warning := range summary.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	if len(summary.FailedBinaries) > 0 {
		fmt.Fprintln(w, "Failed:")

		for _, failed := range summary.FailedBinaries {
			fmt.Fprintf(w, "  %s: %s\n", failed.Binary, failed.Error)
		}
	}

	if summary.SelfUpdateSpawned {
		fmt.Fprintln(w, "Self-update helper spawned; the running executable will be replaced shortly.")
	}
}
