package agent

import (
	"encoding/json"
	"strings"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/tools"
)

// Decision is the structured output of one planning step. It is produced
// once, executed once, and never mutated.
type Decision struct {
	Tool      string         `json:"tool"`
	Reasoning string         `json:"reasoning"`
	Params    map[string]any `json:"params"`
}

// ParseDecision extracts a Decision from the planner's free-form reply.
// It is total: strict JSON decode first, then ordered keyword fallbacks,
// never an error. The planner does not reliably honor the requested output
// format, so the fallbacks are load-bearing.
func ParseDecision(raw string) Decision {
	cleaned := stripFences(raw)

	var d Decision
	if err := json.Unmarshal([]byte(cleaned), &d); err == nil && d.Tool != "" {
		if d.Params == nil {
			d.Params = map[string]any{}
		}
		return d
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, tools.ToolSummarizeData):
		return fallbackDecision(tools.ToolSummarizeData)
	case strings.Contains(lower, tools.ToolExecuteSQL):
		return fallbackDecision(tools.ToolExecuteSQL)
	case strings.Contains(lower, "done") || strings.Contains(lower, "complete"):
		return fallbackDecision(tools.ToolDone)
	default:
		return Decision{
			Tool:      tools.ToolSummarizeData,
			Reasoning: "planner reply could not be parsed; defaulting to summarize_data",
			Params:    map[string]any{},
		}
	}
}

func fallbackDecision(tool string) Decision {
	return Decision{
		Tool:      tool,
		Reasoning: "keyword fallback: planner reply was not valid JSON",
		Params:    map[string]any{},
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, leaving any other text untouched.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	body := parts[1]
	if nl := strings.Index(body, "\n"); nl != -1 {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			body = body[nl+1:]
		}
	}
	if t := strings.TrimSpace(body); t != "" {
		return t
	}
	return s
}
