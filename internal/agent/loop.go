package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

const (
	// DefaultMaxSteps bounds how many tool invocations one run may make.
	DefaultMaxSteps = 10
	// DefaultErrorBudget is how many erroring invocations are tolerated
	// before the loop gives up on a persistently failing session.
	DefaultErrorBudget = 3

	decisionMaxTokens = 1024
)

// Options tune the loop budgets. Zero values fall back to the defaults.
type Options struct {
	MaxSteps    int
	ErrorBudget int
}

// Loop drives the decide/resolve/execute cycle for one question at a time.
// Execution is strictly sequential; each iteration fully completes before
// the next begins.
type Loop struct {
	planner planner.Planner
	tools   map[string]tools.Tool
	sqlgen  *SQLGenerator
	opts    Options
}

// New assembles a loop over the fixed capability set.
func New(p planner.Planner, store tools.SQLExecutor, schema SchemaProvider, opts Options) *Loop {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.ErrorBudget <= 0 {
		opts.ErrorBudget = DefaultErrorBudget
	}
	return &Loop{
		planner: p,
		tools:   tools.Registry(p, store),
		sqlgen:  NewSQLGenerator(p, schema),
		opts:    opts,
	}
}

// Run executes the orchestration loop for one question and returns the
// accumulated context. It never returns an error: every failure along the
// way is recorded as a structured result and bounded by the budgets.
func (l *Loop) Run(ctx context.Context, query string) *Context {
	c := &Context{OriginalQuery: query, State: StateRunning}
	errCount := 0

	for {
		if c.Step >= l.opts.MaxSteps {
			c.State = StateStepExhausted
			log.Warn().Int("max_steps", l.opts.MaxSteps).Msg("step budget exhausted")
			break
		}
		c.Step++

		decision := l.decide(ctx, c)
		log.Info().
			Int("step", c.Step).
			Str("tool", decision.Tool).
			Str("reasoning", decision.Reasoning).
			Msg("step decision")

		if decision.Tool == tools.ToolDone {
			c.State = StateDone
			break
		}

		result := l.execute(ctx, c, decision)
		c.Results = append(c.Results, result)

		if result.Failed() {
			errCount++
			log.Warn().
				Int("step", c.Step).
				Str("tool", result.Tool).
				Str("error", result.Err).
				Int("errors", errCount).
				Msg("step failed")
			if errCount >= l.opts.ErrorBudget {
				c.State = StateErrorExhausted
				log.Warn().Int("error_budget", l.opts.ErrorBudget).Msg("error budget exhausted, stopping early")
				break
			}
			continue
		}

		log.Info().
			Int("step", c.Step).
			Str("tool", result.Tool).
			Int("row_count", result.RowCount).
			Msg("step completed")
	}

	return c
}

// Ask is the full pipeline: run the loop, then aggregate and summarize
// whatever data was collected, regardless of why the loop stopped.
func (l *Loop) Ask(ctx context.Context, query string) (*Context, models.ToolResult) {
	c := l.Run(ctx, query)
	return c, l.Finalize(ctx, c)
}

// decide asks the planner which tool to invoke next. A planner transport
// failure degrades to an analyze_question decision so the loop stays alive.
func (l *Loop) decide(ctx context.Context, c *Context) Decision {
	raw, err := l.planner.Complete(ctx, l.decisionPrompt(c), decisionMaxTokens)
	if err != nil {
		return Decision{
			Tool:      tools.ToolAnalyzeQuestion,
			Reasoning: fmt.Sprintf("Error in planner: %v", err),
			Params:    map[string]any{},
		}
	}
	return ParseDecision(raw)
}

func (l *Loop) decisionPrompt(c *Context) string {
	var sb strings.Builder
	sb.WriteString("You are orchestrating tools to answer a question about a sports schedule dataset.\n\n")
	sb.WriteString("Question: " + c.OriginalQuery + "\n\n")
	sb.WriteString("Available tools:\n")
	for _, id := range []string{
		tools.ToolAnalyzeQuestion,
		tools.ToolExecuteSQL,
		tools.ToolSummarizeData,
		tools.ToolCompareData,
		tools.ToolAnswerQuestion,
	} {
		sb.WriteString("- " + id + ": " + l.tools[id].Description + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nStep %d of at most %d. Previous steps:\n", c.Step, l.opts.MaxSteps))
	if len(c.Results) == 0 {
		sb.WriteString("(none yet)\n")
	}
	for i, r := range c.Results {
		if r.Failed() {
			sb.WriteString(fmt.Sprintf("%d. %s -> error: %s\n", i+1, r.Tool, r.Err))
			continue
		}
		outcome := r.Result
		if r.Tool == tools.ToolExecuteSQL {
			outcome = fmt.Sprintf("%d rows returned", r.RowCount)
		}
		sb.WriteString(fmt.Sprintf("%d. %s -> %s\n", i+1, r.Tool, truncate(outcome, 200)))
	}

	sb.WriteString(`
Decide the single next step. Reply with only a JSON object:
{"tool": "<tool name>", "reasoning": "<one sentence>", "params": {}}
If you have run a query and summarized or answered already, reply {"tool": "done", "reasoning": "..."}.
`)
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
