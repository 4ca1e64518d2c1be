package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/ganttkit/internal/cli"
	"github.com/alexanderramin/ganttkit/internal/config"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/db"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/repository"
	"github.com/alexanderramin/ganttkit/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Defaults, then ~/.ganttkit/config.yaml (or GANTTKIT_CONFIG), then env.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	prefsRepo := repository.NewSQLitePreferencesRepo(database)
	dropRepo := repository.NewSQLiteDropLogRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Fixtures: a directory when configured, the bundled samples otherwise.
	embedded := fixture.EmbeddedSource{Seed: cfg.Large.Seed, Campaigns: cfg.Large.Campaigns}
	var source fixture.Source = embedded
	if cfg.FixtureDir != "" {
		dir := fixture.NewDirSource(cfg.FixtureDir)
		dir.Fallback = embedded
		source = dir
	}

	registry := controller.DefaultRegistry()
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Registry: registry,
		Pages:    service.NewPageService(registry, source, prefsRepo, dropRepo, logger, observer),
		Prefs:    service.NewPreferencesService(registry, prefsRepo, uow, observer),
		Drops:    service.NewDropLogService(registry, dropRepo),
		Config:   cfg,
		Logger:   logger,
	}

	// Prompts and the page view need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
