package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// scriptPlanner replays canned replies in order; the last reply repeats.
type scriptPlanner struct {
	replies []string
	err     error
	calls   int
}

func (p *scriptPlanner) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return reply, nil
}

type fakeStore struct {
	result  *models.QueryResult
	err     error
	queries []string
}

func (s *fakeStore) Query(ctx context.Context, sql string) (*models.QueryResult, error) {
	s.queries = append(s.queries, sql)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type staticSchema struct{}

func (staticSchema) TableSchema(ctx context.Context) string {
	return "CREATE TABLE `combined-schedule` (`date` date)"
}

func newLoop(p *scriptPlanner, s *fakeStore, opts agent.Options) *agent.Loop {
	return agent.New(p, s, staticSchema{}, opts)
}

func TestLoopDoneAppendsNothing(t *testing.T) {
	p := &scriptPlanner{replies: []string{`{"tool": "done", "reasoning": "nothing to do"}`}}
	loop := newLoop(p, &fakeStore{}, agent.Options{})

	c := loop.Run(context.Background(), "anything")

	if c.State != agent.StateDone {
		t.Errorf("state = %q, want done", c.State)
	}
	if len(c.Results) != 0 {
		t.Errorf("done decision must not append results, got %d", len(c.Results))
	}
	if c.Step != 1 {
		t.Errorf("step = %d, want 1", c.Step)
	}
}

func TestLoopStepBudgetExhausted(t *testing.T) {
	// Planner always picks a valid non-done tool; the analyze capability
	// receives the same canned reply as its analysis text.
	p := &scriptPlanner{replies: []string{`{"tool": "analyze_question", "reasoning": "dig deeper"}`}}
	loop := newLoop(p, &fakeStore{}, agent.Options{})

	c := loop.Run(context.Background(), "endless question")

	if c.State != agent.StateStepExhausted {
		t.Errorf("state = %q, want step_exhausted", c.State)
	}
	if len(c.Results) != 10 {
		t.Errorf("results = %d, want exactly 10 invocations", len(c.Results))
	}
	if c.Step != 10 {
		t.Errorf("step = %d, must never exceed the budget of 10", c.Step)
	}
}

func TestLoopErrorBudgetExhausted(t *testing.T) {
	p := &scriptPlanner{replies: []string{`{"tool": "execute_sql", "reasoning": "fetch", "params": {"sql": "SELECT boom"}}`}}
	store := &fakeStore{err: errors.New("store down")}
	loop := newLoop(p, store, agent.Options{})

	c := loop.Run(context.Background(), "q")

	if c.State != agent.StateErrorExhausted {
		t.Errorf("state = %q, want error_exhausted", c.State)
	}
	if c.Step > 3 {
		t.Errorf("step = %d, error budget must trip at or before step 3", c.Step)
	}
	if n := c.ErrorCount(); n < 1 || n > 3 {
		t.Errorf("error count = %d, want between 1 and 3", n)
	}
	for _, r := range c.Results {
		if r.Tool != tools.ToolExecuteSQL {
			t.Errorf("result tool = %q, want execute_sql", r.Tool)
		}
		if !r.Failed() {
			t.Error("every result should be an error")
		}
	}
}

func TestLoopUnknownToolRecordsStructuredError(t *testing.T) {
	p := &scriptPlanner{replies: []string{
		`{"tool": "frobnicate", "reasoning": "?"}`,
		`{"tool": "done", "reasoning": "giving up"}`,
	}}
	loop := newLoop(p, &fakeStore{}, agent.Options{})

	c := loop.Run(context.Background(), "q")

	if len(c.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(c.Results))
	}
	r := c.Results[0]
	if r.Tool != "frobnicate" {
		t.Errorf("tool = %q, want frobnicate", r.Tool)
	}
	if r.Err != "Unknown tool: frobnicate" {
		t.Errorf("err = %q", r.Err)
	}
	if c.State != agent.StateDone {
		t.Errorf("state = %q, unknown tool must not kill the loop", c.State)
	}
}

func TestLoopPlannerFailureDegrades(t *testing.T) {
	p := &scriptPlanner{err: errors.New("connection refused")}
	loop := newLoop(p, &fakeStore{}, agent.Options{})

	c := loop.Run(context.Background(), "q")

	if c.State != agent.StateErrorExhausted {
		t.Errorf("state = %q, want error_exhausted", c.State)
	}
	if len(c.Results) == 0 {
		t.Fatal("expected recorded results")
	}
	// The decision degrades to analyze_question, whose own planner call then
	// fails and is recorded as a structured error.
	r := c.Results[0]
	if r.Tool != tools.ToolAnalyzeQuestion {
		t.Errorf("tool = %q, want analyze_question", r.Tool)
	}
	if !r.Failed() {
		t.Error("result should carry the planner error")
	}
}

func TestLoopSummarizeWithNoDataSucceeds(t *testing.T) {
	p := &scriptPlanner{replies: []string{
		`{"tool": "summarize_data", "reasoning": "summarize what we have"}`,
		`{"tool": "done", "reasoning": "ok"}`,
	}}
	loop := newLoop(p, &fakeStore{}, agent.Options{})

	c := loop.Run(context.Background(), "q")

	if len(c.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(c.Results))
	}
	r := c.Results[0]
	if r.Failed() {
		t.Fatalf("summarize with no data must not fail, got %q", r.Err)
	}
	if r.Result != tools.NoDataMessage {
		t.Errorf("result = %q, want the no-data message", r.Result)
	}
}

func TestLoopFullScenarioFourGames(t *testing.T) {
	rows := [][]any{
		{"Thursday", "2024-12-19", "Knicks", "Nets"},
		{"Friday", "2024-12-20", "Rangers", "Devils"},
		{"Saturday", "2024-12-21", "Liberty", "Sky"},
		{"Sunday", "2024-12-22", "Giants", "Jets"},
	}
	p := &scriptPlanner{replies: []string{
		// step 1: decision, no sql param -> triggers generation
		`{"tool": "execute_sql", "reasoning": "need the first 4 games"}`,
		// subordinate SQL generation call, fenced like real model output
		"```sql\nSELECT day, `date`, home_team, road_team FROM `combined-schedule` ORDER BY `date` LIMIT 4\n```",
		// step 2: done
		`{"tool": "done", "reasoning": "data fetched"}`,
		// final aggregation summary
		"- Knicks vs Nets\n- Rangers vs Devils\n- Liberty vs Sky\n- Giants vs Jets\nFour games in four days.",
	}}
	store := &fakeStore{result: &models.QueryResult{
		Rows:    rows,
		Columns: []string{"day", "date", "home_team", "road_team"},
	}}
	loop := newLoop(p, store, agent.Options{})

	c, summary := loop.Ask(context.Background(), "Show me the first 4 games")

	if c.State != agent.StateDone {
		t.Fatalf("state = %q, want done", c.State)
	}
	if len(c.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(c.Results))
	}
	r := c.Results[0]
	if r.RowCount != 4 {
		t.Errorf("row count = %d, want 4", r.RowCount)
	}
	if !strings.HasPrefix(r.SQL, "SELECT") {
		t.Errorf("fences should be stripped from generated SQL, got %q", r.SQL)
	}
	if len(store.queries) != 1 || store.queries[0] != r.SQL {
		t.Errorf("store should have executed exactly the generated SQL")
	}
	if summary.Failed() {
		t.Fatalf("final summary errored: %s", summary.Err)
	}
	if got := strings.Count(summary.Result, "- "); got != 4 {
		t.Errorf("summary bullets = %d, want 4", got)
	}
}
