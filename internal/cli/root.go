// Package cli wires together the Cobra command tree for the reviewgen binary.
//
// It defines the root command and its subcommands (generate, history,
// settings, export), reads configuration from the environment, runs the
// generation pipeline and returns an exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/history"
	"github.com/Conceptual-Machines/review-generator/internal/llm"
	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

// App holds what the commands need; tests replace build and the writers
type App struct {
	Out    io.Writer
	ErrOut io.Writer
	Now    func() time.Time

	// LoadConfig reads configuration; it is not validated
	LoadConfig func() *config.Config

	// Build assembles the generation service. The returned func releases it.
	Build func(ctx context.Context, cfg *config.Config) (*services.GenerationService, func() error, error)

	exitCode int
}

// DefaultApp wires the real environment configuration and backends
func DefaultApp() *App {
	return &App{
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		Now:        time.Now,
		LoadConfig: loadConfig,
		Build:      buildService,
	}
}

func loadConfig() *config.Config {
	_ = godotenv.Load()
	return config.Load()
}

func buildService(ctx context.Context, cfg *config.Config) (*services.GenerationService, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	client, err := llm.NewProviderFactory(cfg).NewClient(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return services.NewGenerationService(store, client), store.Close, nil
}

// NewRootCommand builds the command tree bound to app
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "reviewgen",
		Short:         "Generate synthetic business reviews with an LLM",
		Long:          "reviewgen writes realistic, varied customer reviews for a business and keeps a history of what it generated.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return logger.Init(level, "console")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.SetOut(app.Out)
	root.SetErr(app.ErrOut)

	root.AddCommand(
		newGenerateCommand(app),
		newHistoryCommand(app),
		newSettingsCommand(app),
		newExportCommand(app),
	)
	return root
}

// Execute runs the command tree with args and returns an exit code
func (app *App) Execute(args []string) int {
	app.exitCode = ExitSuccess
	root := NewRootCommand(app)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(app.ErrOut, "Error: %v\n", err)
		if app.exitCode == ExitSuccess {
			app.exitCode = exitCodeFor(err)
		}
	}
	return app.exitCode
}

// Run executes reviewgen with the process arguments
func Run() int {
	return DefaultApp().Execute(os.Args[1:])
}

// withService builds the service, runs fn and releases the service
func (app *App) withService(cmd *cobra.Command, fn func(svc *services.GenerationService) error) error {
	cfg := app.LoadConfig()
	svc, release, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if release != nil {
			if err := release(); err != nil {
				logger.Warn("Failed to close history store", logger.Fields{"error": err.Error()})
			}
		}
	}()
	return fn(svc)
}
