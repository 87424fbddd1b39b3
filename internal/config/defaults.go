package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	// DoltHub SQL-over-HTTP endpoint hosting the schedule dataset.
	DefaultDoltBaseURL = "https://www.dolthub.com"
	DefaultDoltOwner   = "gmichnikov"
	DefaultDoltRepo    = "sports-schedules"
	DefaultDoltBranch  = "main"

	DefaultQueryTimeout = 30 * time.Second
	DefaultAgentTimeout = 120 // seconds for one full agent run

	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// Orchestration loop budgets.
	DefaultMaxSteps    = 10
	DefaultErrorBudget = 3
)

var DefaultCORSOrigins = []string{"*"}
