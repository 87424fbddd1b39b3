package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/config"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/server"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/service"
)

const defaultQuestion = "Show me the first 4 games"

var apiKeyFlag string

var rootCmd = &cobra.Command{
	Use:   "nl2sports",
	Short: "nl2sports - query sports schedules using natural language",
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a natural-language question about the schedule dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAsk,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	askCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Anthropic API key (overrides environment)")
	rootCmd.AddCommand(askCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)

	if apiKeyFlag != "" {
		cfg.AnthropicAPIKey = apiKeyFlag
	}
	// The one fatal startup condition: no planner credential.
	if cfg.AnthropicAPIKey == "" {
		return fmt.Errorf("API key not set: use --api-key or the ANTHROPIC_API_KEY / API_KEY environment variable")
	}

	question := defaultQuestion
	if len(args) > 0 {
		question = args[0]
	}

	dolt := service.NewDoltService(cfg.DoltBaseURL, cfg.DoltOwner, cfg.DoltRepo, cfg.DoltBranch, config.DefaultQueryTimeout)
	p := planner.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	loop := agent.New(p, dolt, dolt, agent.Options{
		MaxSteps:    cfg.MaxSteps,
		ErrorBudget: cfg.ErrorBudget,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.AgentTimeout)*time.Second)
	defer cancel()

	fmt.Printf("Natural language query: %s\n", question)
	fmt.Printf("Querying DoltHub repository: %s/%s\n", cfg.DoltOwner, cfg.DoltRepo)
	fmt.Println(strings.Repeat("-", 50))

	runCtx, summary := loop.Ask(ctx, question)

	printRun(os.Stdout, runCtx, summary)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
