package tools

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

// AnalyzeQuestionTool asks the planner to break a question down before any
// data has been fetched.
func AnalyzeQuestionTool(p planner.Planner) Tool {
	return Tool{
		Name:        ToolAnalyzeQuestion,
		Description: "Analyze what the user is asking and which schedule attributes (sport, league, date range, teams, location) are relevant.",
		Execute: func(ctx context.Context, input map[string]any) (models.ToolResult, error) {
			question, _ := input["question"].(string)

			prompt := fmt.Sprintf(`You are helping answer questions about a sports schedule dataset
(columns: sport, level, league, date, day, time, home_team, road_team, location, home_city, home_state).

Briefly analyze the following question: which attributes matter, what date range is implied,
and what SQL filtering would be needed. Keep it to a few sentences.

Question: %s`, question)

			text, err := p.Complete(ctx, prompt, 0)
			if err != nil {
				return models.ToolResult{}, err
			}
			return models.ToolResult{Tool: ToolAnalyzeQuestion, Result: text}, nil
		},
	}
}
