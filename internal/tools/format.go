package tools

import (
	"fmt"
	"strings"
)

// maxPromptRows bounds how much tabular data gets inlined into a planner
// prompt.
const maxPromptRows = 50

// formatRows renders rows as a compact pipe-separated table for inclusion in
// a planner prompt.
func formatRows(rows [][]any, columns []string) string {
	var sb strings.Builder
	if len(columns) > 0 {
		sb.WriteString(strings.Join(columns, " | "))
		sb.WriteString("\n")
	}
	n := len(rows)
	if n > maxPromptRows {
		n = maxPromptRows
	}
	for _, row := range rows[:n] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	if len(rows) > n {
		sb.WriteString(fmt.Sprintf("... (%d more rows)\n", len(rows)-n))
	}
	return sb.String()
}
