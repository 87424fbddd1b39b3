package models

// QueryResult holds the outcome of one SQL execution against the schedule
// store. Rows are positional value slices aligned with Columns.
type QueryResult struct {
	Rows    [][]any  `json:"rows"`
	Columns []string `json:"columns"`
}

// ToolResult is the uniform outcome of one capability invocation. Exactly one
// of Result/Err is populated; the SQL/Rows/Columns fields are only set by the
// SQL-executing capability.
type ToolResult struct {
	Tool     string   `json:"tool"`
	Result   string   `json:"result,omitempty"`
	Err      string   `json:"error,omitempty"`
	SQL      string   `json:"sql,omitempty"`
	Rows     [][]any  `json:"rows,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	RowCount int      `json:"row_count,omitempty"`
}

// Failed reports whether the invocation errored.
func (r ToolResult) Failed() bool {
	return r.Err != ""
}
