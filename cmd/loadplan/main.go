package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/cli"
	"github.com/alexanderramin/loadplan/internal/config"
	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File, "db", cfg.DBPath)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// A nil fetcher counts every weekday as working.
	var holidays calendar.HolidayFetcher
	if cfg.Holidays.Enabled {
		holidays = calendar.NewHTTPHolidayFetcher(cfg.FetcherConfig())
	}

	var observers []service.UseCaseObserver
	if cfg.Log.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	app := &cli.App{
		Plans:     service.NewPlanService(uow, holidays, logger, observers...),
		Imports:   service.NewImportService(uow, holidays, logger, observers...),
		Staging:   service.NewStagingService(uow, observers...),
		Reconcile: service.NewReconcileService(uow, observers...),
		Exports:   service.NewExportService(uow, observers...),
		Edits:     service.NewEditService(uow, holidays, logger, observers...),
	}

	// Prompts only make sense on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
