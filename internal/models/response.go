package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// QueryResponse is returned by POST /api/v1/query
type QueryResponse struct {
	Status   string   `json:"status"`
	Rows     [][]any  `json:"rows"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

// StepInfo is one entry of the per-step trace in an AskResponse.
type StepInfo struct {
	Step     int    `json:"step"`
	Tool     string `json:"tool"`
	Error    string `json:"error,omitempty"`
	RowCount int    `json:"row_count,omitempty"`
}

// AskResponse is returned by POST /api/v1/ask
type AskResponse struct {
	Status       string     `json:"status"`
	Question     string     `json:"question"`
	Summary      string     `json:"summary,omitempty"`
	State        string     `json:"state"`
	GeneratedSQL *string    `json:"generated_sql,omitempty"`
	Steps        []StepInfo `json:"steps"`
}

// SchemaResponse is returned by GET /api/v1/schema
type SchemaResponse struct {
	Table  string `json:"table"`
	Schema string `json:"schema"`
}
