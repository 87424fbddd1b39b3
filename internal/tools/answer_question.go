package tools

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

// AnswerQuestionTool answers the original question directly using whatever
// data has been collected so far. With no data it degrades to a "no data"
// success without calling the planner.
func AnswerQuestionTool(p planner.Planner) Tool {
	return Tool{
		Name:        ToolAnswerQuestion,
		Description: "Answer the user's original question directly, using previously fetched schedule rows as evidence.",
		Execute: func(ctx context.Context, input map[string]any) (models.ToolResult, error) {
			question, _ := input["question"].(string)
			rows, _ := input["rows"].([][]any)
			columns, _ := input["columns"].([]string)

			if len(rows) == 0 {
				return models.ToolResult{Tool: ToolAnswerQuestion, Result: NoDataMessage}, nil
			}

			prompt := fmt.Sprintf(`Answer the question below using only the schedule data provided.
Be direct and concrete; cite dates and teams from the data.

Question: %s

Data (%d rows):
%s`, question, len(rows), formatRows(rows, columns))

			text, err := p.Complete(ctx, prompt, 0)
			if err != nil {
				return models.ToolResult{}, err
			}
			return models.ToolResult{Tool: ToolAnswerQuestion, Result: text, RowCount: len(rows)}, nil
		},
	}
}
