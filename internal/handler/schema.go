package handler

import (
	"context"
	"net/http"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/service"
)

// SchemaProvider exposes the schedule table DDL.
type SchemaProvider interface {
	TableSchema(ctx context.Context) string
}

// SchemaHandler handles GET /api/v1/schema.
type SchemaHandler struct {
	schema SchemaProvider
}

func NewSchemaHandler(schema SchemaProvider) *SchemaHandler {
	return &SchemaHandler{schema: schema}
}

func (h *SchemaHandler) Schema(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.SchemaResponse{
		Table:  service.ScheduleTable,
		Schema: h.schema.TableSchema(r.Context()),
	})
}
