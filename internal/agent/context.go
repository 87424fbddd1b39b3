// Package agent implements the bounded orchestration loop that turns one
// natural-language question into a sequence of tool invocations.
package agent

import (
	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// State is the terminal condition of one loop run.
type State string

const (
	StateRunning        State = "running"
	StateDone           State = "done"
	StateStepExhausted  State = "step_exhausted"
	StateErrorExhausted State = "error_exhausted"
)

// Context accumulates the state of one orchestration run. It is owned
// exclusively by the loop while Run executes; Results is append-only, and
// only completed tool invocations land there.
type Context struct {
	OriginalQuery string
	Step          int
	Results       []models.ToolResult
	State         State
}

// LatestRows scans Results newest-first for the most recent successful
// execute_sql result and returns its rows and columns.
func (c *Context) LatestRows() ([][]any, []string, bool) {
	for i := len(c.Results) - 1; i >= 0; i-- {
		r := c.Results[i]
		if r.Tool == tools.ToolExecuteSQL && !r.Failed() {
			return r.Rows, r.Columns, true
		}
	}
	return nil, nil, false
}

// LastSQL returns the most recently executed SQL statement, if any.
func (c *Context) LastSQL() string {
	for i := len(c.Results) - 1; i >= 0; i-- {
		if sql := c.Results[i].SQL; sql != "" {
			return sql
		}
	}
	return ""
}

// ErrorCount returns how many recorded results carry an error.
func (c *Context) ErrorCount() int {
	n := 0
	for _, r := range c.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
