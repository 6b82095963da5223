package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/planline/internal/cli"
	"github.com/alexanderramin/planline/internal/config"
	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/repository"
	"github.com/alexanderramin/planline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteWbsNodeRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	costRepo := repository.NewSQLiteTaskCostRepo(database)
	claimRepo := repository.NewSQLiteClaimRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithRollupMaxDepth(cfg.RollupMaxDepth),
		service.WithMaxWeeks(cfg.MaxWeeks),
	}
	if cfg.LogUseCases {
		opts = append(opts, service.WithObserver(service.NewSlogUseCaseObserver(logger)))
	}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo, uow, opts...),
		Wbs:       service.NewWbsService(nodeRepo, projectRepo, uow, opts...),
		Deps:      service.NewDependencyService(depRepo, nodeRepo, uow, opts...),
		Valuation: service.NewValuationService(costRepo, claimRepo, nodeRepo, uow, opts...),
		Curve:     service.NewCurveService(projectRepo, costRepo, claimRepo, opts...),
		Import:    service.NewImportService(projectRepo, uow, opts...),
	}

	// Prompts only when a terminal is attached.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
