package tools

import (
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

// Registry builds the fixed tool set. There is no dynamic registration;
// resolving an unknown identifier is the caller's structured-error path.
func Registry(p planner.Planner, store SQLExecutor) map[string]Tool {
	reg := make(map[string]Tool, 5)
	for _, t := range []Tool{
		AnalyzeQuestionTool(p),
		ExecuteSQLTool(store),
		SummarizeDataTool(p),
		CompareDataTool(p),
		AnswerQuestionTool(p),
	} {
		reg[t.Name] = t
	}
	return reg
}
