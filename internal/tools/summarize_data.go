package tools

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

// NoDataMessage is returned when a summarization-style capability is invoked
// before any query has produced rows. It is a success, not an error.
const NoDataMessage = "No data available to summarize. Run a query first."

// SummarizeDataTool turns a result set into a short human-readable summary.
// An empty dataset short-circuits without a planner call.
func SummarizeDataTool(p planner.Planner) Tool {
	return Tool{
		Name:        ToolSummarizeData,
		Description: "Summarize a set of schedule rows into a short human-readable overview, one bullet per game.",
		Execute: func(ctx context.Context, input map[string]any) (models.ToolResult, error) {
			rows, _ := input["rows"].([][]any)
			columns, _ := input["columns"].([]string)

			if len(rows) == 0 {
				return models.ToolResult{Tool: ToolSummarizeData, Result: NoDataMessage}, nil
			}

			prompt := fmt.Sprintf(`Summarize the following %d rows of sports schedule data.
Write one bullet per game (day, date, matchup, time if present), then a one-sentence overview.

%s`, len(rows), formatRows(rows, columns))

			text, err := p.Complete(ctx, prompt, 0)
			if err != nil {
				return models.ToolResult{}, err
			}
			return models.ToolResult{Tool: ToolSummarizeData, Result: text, RowCount: len(rows)}, nil
		},
	}
}
