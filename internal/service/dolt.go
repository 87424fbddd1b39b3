// Package service contains clients for the external collaborators: the
// DoltHub SQL-over-HTTP API that hosts the schedule dataset.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
)

// ScheduleTable is the single table served by the dataset.
const ScheduleTable = "combined-schedule"

// doltResponse is the wire shape of the DoltHub SQL API.
type doltResponse struct {
	Status  string   `json:"query_execution_status"`
	Message string   `json:"query_execution_message"`
	Rows    [][]any  `json:"rows"`
	Columns []string `json:"columns"`
}

// DoltService executes SQL against a DoltHub repository over HTTP GET.
type DoltService struct {
	httpClient  *http.Client
	queryURL    string
	schemaCache *schemaCache
}

// NewDoltService builds a client for {baseURL}/api/v1alpha1/{owner}/{repo}/{branch}.
func NewDoltService(baseURL, owner, repo, branch string, timeout time.Duration) *DoltService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &DoltService{
		httpClient: &http.Client{Timeout: timeout},
		queryURL:   fmt.Sprintf("%s/api/v1alpha1/%s/%s/%s", baseURL, owner, repo, branch),
	}
	s.schemaCache = newSchemaCache(s)
	return s
}

// Query runs one SQL statement and returns positional rows plus column names.
// A non-200 status, a non-JSON body, or query_execution_status "Error" all
// come back as ordinary errors, never panics.
func (s *DoltService) Query(ctx context.Context, sql string) (*models.QueryResult, error) {
	u := s.queryURL + "?q=" + url.QueryEscape(sql)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dolthub request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dolthub HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var dr doltResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if dr.Status == "Error" {
		msg := dr.Message
		if msg == "" {
			msg = "unknown SQL error"
		}
		return nil, fmt.Errorf("SQL error: %s", msg)
	}

	return &models.QueryResult{Rows: dr.Rows, Columns: dr.Columns}, nil
}

// TestConnection runs a trivial query to verify the repository is reachable.
func (s *DoltService) TestConnection(ctx context.Context) error {
	_, err := s.Query(ctx, "SELECT 1")
	return err
}

// TableSchema returns the CREATE TABLE statement for the schedule table,
// refreshed from the store with a short TTL. Falls back to the embedded
// schema when the store is unreachable.
func (s *DoltService) TableSchema(ctx context.Context) string {
	return s.schemaCache.get(ctx)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
