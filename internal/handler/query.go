package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/security"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// QueryHandler handles POST /api/v1/query (direct SQL, SELECT-only).
type QueryHandler struct {
	store  tools.SQLExecutor
	sqlVal *security.SQLValidator
	audit  *security.AuditLogger
}

func NewQueryHandler(store tools.SQLExecutor, sqlVal *security.SQLValidator, audit *security.AuditLogger) *QueryHandler {
	return &QueryHandler{store: store, sqlVal: sqlVal, audit: audit}
}

func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()

	if msg := h.sqlVal.Validate(req.SQL); msg != "" {
		models.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.TimeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := h.store.Query(ctx, req.SQL)
	durMs := time.Since(start).Milliseconds()
	if err != nil {
		h.audit.LogQuery(req.SQL, false, 0, durMs, err.Error())
		models.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.audit.LogQuery(req.SQL, true, len(result.Rows), durMs, "")

	models.WriteJSON(w, http.StatusOK, models.QueryResponse{
		Status:   "success",
		Rows:     result.Rows,
		Columns:  result.Columns,
		RowCount: len(result.Rows),
	})
}
