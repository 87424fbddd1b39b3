package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
)

const sqlGenMaxTokens = 1000

// exampleQuery anchors the planner on absolute dates and case-insensitive
// text filters.
const exampleQuery = "SELECT league, `date`, day, `time`, home_team, road_team, location \n" +
	"FROM `combined-schedule`\n" +
	"WHERE LOWER(home_state) IN (LOWER(\"NY\"), LOWER(\"NJ\"))\n" +
	"AND `date` >= '2024-12-19' AND `date` <= '2024-12-26'\n" +
	"ORDER BY `date`, `time` ASC"

// SchemaProvider supplies the current CREATE TABLE statement for the prompt.
type SchemaProvider interface {
	TableSchema(ctx context.Context) string
}

// SQLGenerator produces a SQL query from a natural-language question via a
// subordinate planner call.
type SQLGenerator struct {
	planner planner.Planner
	schema  SchemaProvider
	now     func() time.Time
	eastern *time.Location
}

func NewSQLGenerator(p planner.Planner, schema SchemaProvider) *SQLGenerator {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata missing; dates in the prompt drift by at most a few hours.
		loc = time.UTC
	}
	return &SQLGenerator{
		planner: p,
		schema:  schema,
		now:     time.Now,
		eastern: loc,
	}
}

// currentEasternDate returns today's date in US Eastern time, the dataset's
// reference timezone.
func (g *SQLGenerator) currentEasternDate() string {
	return g.now().In(g.eastern).Format("2006-01-02")
}

// Generate asks the planner for a SQL query answering the question.
func (g *SQLGenerator) Generate(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`You are a SQL expert. Given a natural language query, generate a valid SQL query for the following table schema:

%s

IMPORTANT:
- Use absolute dates (e.g., '2024-12-19') instead of relative date functions like CURDATE(), DATE_ADD(), etc.
- Use case-insensitive string filtering with LOWER() function for text comparisons (e.g., LOWER(column) = LOWER('value'))

Current date (Eastern Time): %s

Example of a valid SQL query using absolute dates and case-insensitive filtering:
%s

User query: %s

Generate a SQL query that answers the user's question. Use absolute dates in YYYY-MM-DD format and case-insensitive string filtering. Only return the SQL query, no explanations or markdown formatting.`,
		g.schema.TableSchema(ctx), g.currentEasternDate(), exampleQuery, question)

	text, err := g.planner.Complete(ctx, prompt, sqlGenMaxTokens)
	if err != nil {
		return "", fmt.Errorf("generate sql: %w", err)
	}

	sql := stripSQLFences(text)
	if sql == "" {
		return "", fmt.Errorf("planner returned no SQL")
	}
	return sql, nil
}

// stripSQLFences removes markdown wrapping the planner sometimes adds around
// the generated query.
func stripSQLFences(text string) string {
	sql := strings.TrimSpace(text)
	lower := strings.ToLower(sql)
	if strings.HasPrefix(lower, "```sql") {
		sql = sql[6:]
	} else if strings.HasPrefix(sql, "```") {
		sql = sql[3:]
	}
	sql = strings.TrimSuffix(strings.TrimSpace(sql), "```")
	return strings.TrimSpace(sql)
}
