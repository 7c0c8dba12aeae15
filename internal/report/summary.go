package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Hru-s/vaultpermdiff/internal/diff"
)

// Run describes one comparison for the console summary.
type Run struct {
	SourceProfile string
	TargetProfile string
	OutputPath    string
}

type summaryJSON struct {
	SourceProfile string       `json:"sourceProfile"`
	TargetProfile string       `json:"targetProfile"`
	Output        string       `json:"output"`
	Rows          int          `json:"rows"`
	Counts        diff.Summary `json:"counts"`
}

// NormalizeFormat maps a user supplied format to "text" or "json".
func NormalizeFormat(s string) string {
	switch strings.ToLower(s) {
	case "json":
		return "json"
	default:
		return "text"
	}
}

// PrintSummary writes the comparison counts in the given format.
func PrintSummary(w io.Writer, run Run, s diff.Summary, format string) error {
	if NormalizeFormat(format) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaryJSON{
			SourceProfile: run.SourceProfile,
			TargetProfile: run.TargetProfile,
			Output:        run.OutputPath,
			Rows:          s.Total(),
			Counts:        s,
		})
	}

	fmt.Fprintf(w, "Source profile: %s\n", run.SourceProfile)
	fmt.Fprintf(w, "Target profile: %s\n", run.TargetProfile)
	fmt.Fprintln(w)

	if s.Mismatches() == 0 {
		color.New(color.FgGreen).Fprintf(w, " No permission drift detected (%d permissions in both).\n", s.Both)
	} else {
		color.New(color.FgRed).Fprintf(w, " Permission drift detected (%d rows differ):\n", s.Mismatches())
		fmt.Fprintf(w, "  - %s: %d\n", "Only in Source", s.SourceOnly)
		fmt.Fprintf(w, "  - %s: %d\n", "Only in Target", s.TargetOnly)
		fmt.Fprintf(w, "  - %s: %d\n", "In Both", s.Both)
	}

	fmt.Fprintln(w)
	color.New(color.FgGreen).Fprintf(w, "Permissions Diff results were written successfully to %s\n", run.OutputPath)
	return nil
}

// PrintWriteFailure reports an export failure to the user.
func PrintWriteFailure(w io.Writer, err error) {
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		color.New(color.FgYellow).Fprintf(w, "Permission Error: %s\n", writeErr.Error())
		return
	}
	color.New(color.FgYellow).Fprintln(w, err.Error())
}
