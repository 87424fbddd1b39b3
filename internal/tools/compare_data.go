package tools

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

// CompareDataTool compares two datasets. Both datasets must arrive via
// input; there is no implicit lookup for this capability.
func CompareDataTool(p planner.Planner) Tool {
	return Tool{
		Name:        ToolCompareData,
		Description: "Compare two sets of schedule rows (e.g. two teams or two date ranges) and describe the differences.",
		Execute: func(ctx context.Context, input map[string]any) (models.ToolResult, error) {
			rowsA, _ := input["rows"].([][]any)
			colsA, _ := input["columns"].([]string)
			rowsB, _ := input["rows_b"].([][]any)
			colsB, _ := input["columns_b"].([]string)
			compType, _ := input["comparison_type"].(string)
			if compType == "" {
				compType = "general"
			}

			if len(rowsA) == 0 && len(rowsB) == 0 {
				return models.ToolResult{
					Tool:   ToolCompareData,
					Result: "No data provided for comparison.",
				}, nil
			}

			prompt := fmt.Sprintf(`Compare the two sports schedule datasets below (comparison type: %s).
Point out differences in counts, dates, teams, and anything notable.

Dataset A (%d rows):
%s
Dataset B (%d rows):
%s`, compType, len(rowsA), formatRows(rowsA, colsA), len(rowsB), formatRows(rowsB, colsB))

			text, err := p.Complete(ctx, prompt, 0)
			if err != nil {
				return models.ToolResult{}, err
			}
			return models.ToolResult{Tool: ToolCompareData, Result: text}, nil
		},
	}
}
