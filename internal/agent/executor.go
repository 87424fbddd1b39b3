package agent

import (
	"context"
	"fmt"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// execute resolves a decision's parameters against the accumulated context
// and invokes the capability. It is the error boundary: every failure while
// resolving or invoking comes back as a ToolResult with Err set, never as an
// error the loop has to handle.
func (l *Loop) execute(ctx context.Context, c *Context, d Decision) models.ToolResult {
	tool, ok := l.tools[d.Tool]
	if !ok {
		return models.ToolResult{Tool: d.Tool, Err: "Unknown tool: " + d.Tool}
	}

	input, err := l.resolveInput(ctx, c, d)
	if err != nil {
		return models.ToolResult{Tool: d.Tool, Err: err.Error()}
	}

	result, err := tool.Execute(ctx, input)
	if err != nil {
		return models.ToolResult{Tool: d.Tool, Err: err.Error()}
	}
	// The recorded tool id is always the one actually invoked, regardless of
	// what the planner asked for.
	result.Tool = d.Tool
	return result
}

// resolveInput fills in the arguments a capability needs but the planner
// omitted.
func (l *Loop) resolveInput(ctx context.Context, c *Context, d Decision) (map[string]any, error) {
	input := make(map[string]any, len(d.Params)+2)
	for k, v := range d.Params {
		input[k] = v
	}

	switch d.Tool {
	case tools.ToolExecuteSQL:
		if sql, _ := input["sql"].(string); sql == "" {
			generated, err := l.sqlgen.Generate(ctx, c.OriginalQuery)
			if err != nil {
				return nil, err
			}
			input["sql"] = generated
		}

	case tools.ToolSummarizeData:
		resolveData(input, c)

	case tools.ToolAnswerQuestion:
		input["question"] = c.OriginalQuery
		resolveData(input, c)

	case tools.ToolAnalyzeQuestion:
		input["question"] = c.OriginalQuery

	case tools.ToolCompareData:
		// Both datasets come from params only; coercion handles planner-
		// supplied JSON, the capability defaults the rest.
		input["rows"] = coerceRows(input["rows"], input["data"])
		input["rows_b"] = coerceRows(input["rows_b"], input["data_b"])
		input["columns"] = coerceColumns(input["columns"])
		input["columns_b"] = coerceColumns(input["columns_b"])
	}

	return input, nil
}

// resolveData binds the most recent successful query result when the planner
// did not pass data explicitly. With no prior data the capability receives an
// empty dataset and degrades gracefully.
func resolveData(input map[string]any, c *Context) {
	if rows := coerceRows(input["rows"], input["data"]); rows != nil {
		input["rows"] = rows
		input["columns"] = coerceColumns(input["columns"])
		return
	}
	rows, columns, ok := c.LatestRows()
	if !ok {
		rows, columns = nil, nil
	}
	input["rows"] = rows
	input["columns"] = columns
}

// coerceRows converts planner-supplied JSON (a []any of []any) into [][]any,
// preferring the first non-empty candidate.
func coerceRows(candidates ...any) [][]any {
	for _, v := range candidates {
		switch rows := v.(type) {
		case [][]any:
			if len(rows) > 0 {
				return rows
			}
		case []any:
			out := make([][]any, 0, len(rows))
			for _, r := range rows {
				if rr, ok := r.([]any); ok {
					out = append(out, rr)
				} else {
					// scalar row; wrap it so positional alignment survives
					out = append(out, []any{fmt.Sprint(r)})
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func coerceColumns(v any) []string {
	switch cols := v.(type) {
	case []string:
		return cols
	case []any:
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, fmt.Sprint(c))
		}
		return out
	}
	return nil
}
