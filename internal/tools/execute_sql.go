package tools

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
)

// ExecuteSQLTool runs a SQL query against the schedule store and returns the
// rows. The SQL itself comes resolved in the input; generation from natural
// language happens upstream.
func ExecuteSQLTool(store SQLExecutor) Tool {
	return Tool{
		Name:        ToolExecuteSQL,
		Description: "Execute a SQL SELECT query against the combined-schedule table and return the matching rows.",
		Execute: func(ctx context.Context, input map[string]any) (models.ToolResult, error) {
			sql, _ := input["sql"].(string)
			if sql == "" {
				return models.ToolResult{}, fmt.Errorf("sql is required")
			}

			result, err := store.Query(ctx, sql)
			if err != nil {
				return models.ToolResult{}, fmt.Errorf("execute query: %w", err)
			}

			return models.ToolResult{
				Tool:     ToolExecuteSQL,
				Result:   fmt.Sprintf("query returned %d rows", len(result.Rows)),
				SQL:      sql,
				Rows:     result.Rows,
				Columns:  result.Columns,
				RowCount: len(result.Rows),
			}, nil
		},
	}
}
