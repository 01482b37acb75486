package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alexanderramin/costbook/internal/cli"
	"github.com/alexanderramin/costbook/internal/config"
	"github.com/alexanderramin/costbook/internal/db"
	"github.com/alexanderramin/costbook/internal/repository"
	"github.com/alexanderramin/costbook/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	database, uow, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	var metrics *service.MetricsObserver
	if cfg.MetricsFile != "" {
		metrics = service.NewMetricsObserver()
		observers = append(observers, metrics)
	}
	observer := service.NewMultiObserver(observers...)

	estimates := repository.NewSQLEstimateRepo(db.WithDialect(database, dialectOf(cfg)))

	app := &cli.App{
		Estimates: service.NewEstimateService(estimates, uow, observer),
		Import:    service.NewImportService(uow, observer),
		Config:    cfg,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	runErr := cli.NewRootCmd(app).Execute()
	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: writing metrics to %s: %v\n", cfg.MetricsFile, err)
		}
	}
	return runErr
}

func dialectOf(cfg config.Config) db.Dialect {
	if cfg.UsesPostgres() {
		return db.DialectPostgres
	}
	return db.DialectSQLite
}

// openStore opens Postgres when a database URL is configured and the local
// SQLite file otherwise.
func openStore(cfg config.Config) (*sql.DB, db.UnitOfWork, error) {
	if cfg.UsesPostgres() {
		database, err := db.OpenPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres: %w", err)
		}
		return database, db.NewUnitOfWork(database, db.DialectPostgres), nil
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, db.NewSQLiteUnitOfWork(database), nil
}
