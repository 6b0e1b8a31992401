package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/stanza-lrs/stanza/internal/lrs"
)

var (
	successColor = color.New(color.FgGreen)
	countColor   = color.New(color.Bold)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

// printSummary renders the result-carrier metadata after the statements.
func printSummary(w io.Writer, result *lrs.Result) {
	if result.SingleStatement {
		return
	}
	direction := "descending"
	if result.Ascending {
		direction = "ascending"
	}
	countColor.Fprintf(w, "%d returned, %d total, %d remaining (%s)\n",
		len(result.Statements), result.TotalCount, result.RemainingCount, direction)
	if result.HasMore {
		fmt.Fprintln(w, "more results available")
	}
}
