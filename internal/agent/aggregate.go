package agent

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// Aggregate concatenates, in encounter order, the rows of every successful
// execute_sql result. Columns come from the first such result; the schedule
// schema is stable across calls, so differing column sets are ignored.
// The function is pure: the same Results always produce the same dataset.
func Aggregate(results []models.ToolResult) ([][]any, []string) {
	var rows [][]any
	var columns []string
	found := false

	for _, r := range results {
		if r.Tool != tools.ToolExecuteSQL || r.Failed() {
			continue
		}
		if !found {
			columns = r.Columns
			found = true
		}
		rows = append(rows, r.Rows...)
	}
	return rows, columns
}

// Finalize merges all collected data and requests one last summarization.
// With nothing collected it reports "no data" without another planner call.
func (l *Loop) Finalize(ctx context.Context, c *Context) models.ToolResult {
	rows, columns := Aggregate(c.Results)

	if len(rows) == 0 && columns == nil {
		log.Info().Str("state", string(c.State)).Msg("no data collected, skipping final summary")
		return models.ToolResult{
			Tool:   tools.ToolSummarizeData,
			Result: tools.NoDataMessage,
		}
	}

	log.Info().
		Str("state", string(c.State)).
		Int("rows", len(rows)).
		Msg("building final summary")

	result, err := l.tools[tools.ToolSummarizeData].Execute(ctx, map[string]any{
		"rows":    rows,
		"columns": columns,
	})
	if err != nil {
		return models.ToolResult{Tool: tools.ToolSummarizeData, Err: err.Error()}
	}
	result.Tool = tools.ToolSummarizeData
	return result
}
