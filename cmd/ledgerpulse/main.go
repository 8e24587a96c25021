package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/ledgerpulse/internal/cli"
	"github.com/alexanderramin/ledgerpulse/internal/config"
	"github.com/alexanderramin/ledgerpulse/internal/db"
	"github.com/alexanderramin/ledgerpulse/internal/generation"
	"github.com/alexanderramin/ledgerpulse/internal/llm"
	"github.com/alexanderramin/ledgerpulse/internal/repository"
	"github.com/alexanderramin/ledgerpulse/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// LEDGERPULSE_CONFIG names a config file; otherwise the default path
	// is read when present.
	cfg, err := config.Load(os.Getenv("LEDGERPULSE_CONFIG"))
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cfg.LLM.LogCalls {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Without an enabled model every insight uses the fallback content.
	var client llm.LLMClient
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		if client, err = llm.NewClient(cfg.LLM, observer); err != nil {
			return err
		}
	}

	var useCases service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LLM.LogCalls {
		useCases = service.NewLogUseCaseObserver(os.Stderr)
	}

	svc := service.NewInsightService(
		repository.NewSQLiteTeamRepo(database),
		repository.NewSQLiteSnapshotRepo(database),
		repository.NewSQLiteInsightRepo(database),
		db.NewSQLiteUnitOfWork(database),
		generation.NewOrchestrator(client, logger),
		service.Options{
			Enabled:     service.ParseEnabledTeams(cfg.EnabledTeams),
			Location:    loc,
			Locale:      cfg.Locale,
			InsightHour: cfg.InsightHour,
			TeamTTL:     cfg.CurrencyCacheTTL.Duration,
			Logger:      logger,
			Observer:    useCases,
		},
	)

	app := &cli.App{
		Insights: svc,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
