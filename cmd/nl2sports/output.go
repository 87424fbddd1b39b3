package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
)

// printRun renders one finished orchestration run: the step trace, the last
// generated SQL, the collected rows, and the final summary.
func printRun(w io.Writer, c *agent.Context, summary models.ToolResult) {
	for i, r := range c.Results {
		if r.Failed() {
			fmt.Fprintf(w, "Step %d: %s -> error: %s\n", i+1, r.Tool, r.Err)
			continue
		}
		if r.Tool == "execute_sql" {
			fmt.Fprintf(w, "Step %d: %s -> %d rows\n", i+1, r.Tool, r.RowCount)
			continue
		}
		fmt.Fprintf(w, "Step %d: %s -> ok\n", i+1, r.Tool)
	}

	switch c.State {
	case agent.StateStepExhausted:
		fmt.Fprintln(w, "Stopped: step budget reached.")
	case agent.StateErrorExhausted:
		fmt.Fprintln(w, "Stopped early: too many errors.")
	}

	if sql := c.LastSQL(); sql != "" {
		fmt.Fprintf(w, "\nGenerated SQL Query: %s\n", sql)
	}

	if rows, columns, ok := c.LatestRows(); ok && len(rows) > 0 {
		fmt.Fprintf(w, "\nFound %d rows:\n\n", len(rows))
		if len(columns) > 0 {
			header := strings.Join(columns, " | ")
			fmt.Fprintf(w, "Columns: %s\n", header)
			fmt.Fprintln(w, strings.Repeat("-", len(header)+10))
		}
		for i, row := range rows {
			fmt.Fprintf(w, "Row %d: %v\n", i+1, row)
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("-", 50))
	if summary.Failed() {
		fmt.Fprintf(w, "Summary unavailable: %s\n", summary.Err)
		return
	}
	fmt.Fprintln(w, summary.Result)
}
