package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/handler"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/security"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

type fakeAsker struct {
	ctx     *agent.Context
	summary models.ToolResult
	gotQ    string
}

func (f *fakeAsker) Ask(_ context.Context, query string) (*agent.Context, models.ToolResult) {
	f.gotQ = query
	return f.ctx, f.summary
}

type fakeStore struct {
	result *models.QueryResult
	err    error
	gotSQL string
}

func (f *fakeStore) Query(_ context.Context, sql string) (*models.QueryResult, error) {
	f.gotSQL = sql
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeStore) TestConnection(ctx context.Context) error {
	_, err := f.Query(ctx, "SELECT 1")
	return err
}

func noAudit() *security.AuditLogger { return security.NewAuditLogger(false) }

// ─── Ask ──────────────────────────────────────────────────────────────────────

func TestAskSuccess(t *testing.T) {
	sql := "SELECT * FROM `combined-schedule` LIMIT 4"
	asker := &fakeAsker{
		ctx: &agent.Context{
			OriginalQuery: "Show me the first 4 games",
			Step:          2,
			State:         agent.StateDone,
			Results: []models.ToolResult{
				{Tool: tools.ToolExecuteSQL, SQL: sql, RowCount: 4},
				{Tool: tools.ToolSummarizeData, RowCount: 4},
			},
		},
		summary: models.ToolResult{Tool: tools.ToolSummarizeData, Result: "Four games this week."},
	}
	h := handler.NewAskHandler(asker, noAudit())

	body := strings.NewReader(`{"question": "Show me the first 4 games"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", body)
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp models.AskResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || resp.Summary != "Four games this week." {
		t.Errorf("resp = %+v", resp)
	}
	if resp.State != "done" {
		t.Errorf("state = %q", resp.State)
	}
	if resp.GeneratedSQL == nil || *resp.GeneratedSQL != sql {
		t.Errorf("generated_sql = %v, want %q", resp.GeneratedSQL, sql)
	}
	if len(resp.Steps) != 2 || resp.Steps[0].Tool != tools.ToolExecuteSQL {
		t.Errorf("steps = %+v", resp.Steps)
	}
	if asker.gotQ != "Show me the first 4 games" {
		t.Errorf("loop received %q", asker.gotQ)
	}
}

func TestAskMissingQuestion(t *testing.T) {
	h := handler.NewAskHandler(&fakeAsker{}, noAudit())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAskInvalidBody(t *testing.T) {
	h := handler.NewAskHandler(&fakeAsker{}, noAudit())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAskFailedSummary(t *testing.T) {
	asker := &fakeAsker{
		ctx: &agent.Context{
			State:   agent.StateErrorExhausted,
			Step:    3,
			Results: []models.ToolResult{{Tool: tools.ToolExecuteSQL, Err: "SQL error: bad column"}},
		},
		summary: models.ToolResult{Tool: tools.ToolSummarizeData, Err: "summarizer unavailable"},
	}
	h := handler.NewAskHandler(asker, noAudit())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question": "q"}`))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	var resp models.AskResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "error" || resp.Summary != "summarizer unavailable" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.State != "error_exhausted" {
		t.Errorf("state = %q", resp.State)
	}
}

// ─── Query ────────────────────────────────────────────────────────────────────

func TestQuerySuccess(t *testing.T) {
	store := &fakeStore{result: &models.QueryResult{
		Rows:    [][]any{{"Basketball", "2025-01-06"}},
		Columns: []string{"sport", "date"},
	}}
	h := handler.NewQueryHandler(store, security.NewSQLValidator(), noAudit())

	body := strings.NewReader(`{"sql": "SELECT sport, date FROM ` + "`combined-schedule`" + ` LIMIT 1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Execute(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp models.QueryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RowCount != 1 || len(resp.Columns) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestQueryRejectsNonSelect(t *testing.T) {
	store := &fakeStore{}
	h := handler.NewQueryHandler(store, security.NewSQLValidator(), noAudit())

	body := strings.NewReader(`{"sql": "DROP TABLE users"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Execute(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if store.gotSQL != "" {
		t.Error("rejected SQL must never reach the store")
	}
}

func TestQueryStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("dolthub HTTP 502")}
	h := handler.NewQueryHandler(store, security.NewSQLValidator(), noAudit())

	body := strings.NewReader(`{"sql": "SELECT 1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Execute(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

// ─── Health ───────────────────────────────────────────────────────────────────

func TestHealthHealthy(t *testing.T) {
	store := &fakeStore{result: &models.QueryResult{Rows: [][]any{{"1"}}}}
	h := handler.NewHealthHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.Checks["dolthub"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHealthDegraded(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	h := handler.NewHealthHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q", resp.Status)
	}
}

// ─── Schema ───────────────────────────────────────────────────────────────────

type fixedSchema struct{ ddl string }

func (f fixedSchema) TableSchema(context.Context) string { return f.ddl }

func TestSchema(t *testing.T) {
	h := handler.NewSchemaHandler(fixedSchema{ddl: "CREATE TABLE `combined-schedule` (...)"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil)
	rr := httptest.NewRecorder()
	h.Schema(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp models.SchemaResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Table != "combined-schedule" || !strings.Contains(resp.Schema, "CREATE TABLE") {
		t.Errorf("resp = %+v", resp)
	}
}
