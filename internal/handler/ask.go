package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/security"
)

// Asker runs the full orchestration pipeline for one question.
type Asker interface {
	Ask(ctx context.Context, query string) (*agent.Context, models.ToolResult)
}

// AskHandler handles POST /api/v1/ask.
type AskHandler struct {
	loop  Asker
	audit *security.AuditLogger
}

func NewAskHandler(loop Asker, audit *security.AuditLogger) *AskHandler {
	return &AskHandler{loop: loop, audit: audit}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()

	if req.Question == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.Timeout)*time.Second)
	defer cancel()

	start := time.Now()
	runCtx, summary := h.loop.Ask(ctx, req.Question)
	h.audit.LogAgentRun(req.Question, string(runCtx.State), runCtx.Step, runCtx.ErrorCount(),
		runCtx.LastSQL(), time.Since(start).Milliseconds())

	resp := models.AskResponse{
		Status:   "success",
		Question: req.Question,
		Summary:  summary.Result,
		State:    string(runCtx.State),
		Steps:    stepTrace(runCtx),
	}
	if summary.Failed() {
		resp.Status = "error"
		resp.Summary = summary.Err
	}
	if sql := runCtx.LastSQL(); sql != "" {
		resp.GeneratedSQL = &sql
	}

	models.WriteJSON(w, http.StatusOK, resp)
}

func stepTrace(c *agent.Context) []models.StepInfo {
	steps := make([]models.StepInfo, 0, len(c.Results))
	for i, r := range c.Results {
		steps = append(steps, models.StepInfo{
			Step:     i + 1,
			Tool:     r.Tool,
			Error:    r.Err,
			RowCount: r.RowCount,
		})
	}
	return steps
}
