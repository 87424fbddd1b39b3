package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs security-relevant events. Prompts and SQL are hashed so
// the audit trail never stores user content verbatim.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogQuery records a direct SQL execution event.
func (a *AuditLogger) LogQuery(sql string, success bool, rowCount int, executionTimeMs int64, errMsg string) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "query_audit").
		Str("sql_hash", hashStr(sql)).
		Int("row_count", rowCount).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)
	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogAgentRun records one full orchestration run.
func (a *AuditLogger) LogAgentRun(question, state string, steps, errors int, generatedSQL string, executionTimeMs int64) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "agent_audit").
		Str("question_hash", hashStr(question)).
		Str("state", state).
		Int("steps", steps).
		Int("errors", errors).
		Int64("execution_time_ms", executionTimeMs)
	if generatedSQL != "" {
		evt = evt.Str("sql_hash", hashStr(generatedSQL))
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
