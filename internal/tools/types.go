// Package tools defines the closed set of capabilities the planner can
// invoke, plus the registry mapping tool identifiers to implementations.
package tools

import (
	"context"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
)

// Tool identifiers. The set is fixed at process start; ToolDone is a
// sentinel the loop recognizes without executing anything.
const (
	ToolAnalyzeQuestion = "analyze_question"
	ToolExecuteSQL      = "execute_sql"
	ToolSummarizeData   = "summarize_data"
	ToolCompareData     = "compare_data"
	ToolAnswerQuestion  = "answer_question"
	ToolDone            = "done"
)

// Tool is one callable capability. Execute receives already-resolved input
// and returns a uniform ToolResult; transport or capability failures come
// back as the error.
type Tool struct {
	Name        string
	Description string
	Execute     func(ctx context.Context, input map[string]any) (models.ToolResult, error)
}

// SQLExecutor runs one SQL statement against the schedule store.
type SQLExecutor interface {
	Query(ctx context.Context, sql string) (*models.QueryResult, error)
}
