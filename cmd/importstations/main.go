// Command importstations loads a station catalog from a CSV file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vietcharge/vietcharge/internal/db"
	"github.com/vietcharge/vietcharge/internal/repository/postgres"
	"github.com/vietcharge/vietcharge/internal/service/station"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "importstations: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		dsn  = os.Getenv("DATABASE_URI")
		path string
	)

	fs := pflag.NewFlagSet("importstations", pflag.ContinueOnError)
	fs.StringVarP(&dsn, "database", "d", dsn, "Database connection string")
	fs.StringVarP(&path, "file", "f", path, "Path to CSV file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if path == "" {
		return errors.New("csv file path is required (--file)")
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() // nolint:errcheck

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	stationService := station.NewService(postgres.NewStorage(pool))

	summary, err := stationService.ImportCSV(ctx, file)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("imported %d of %d stations (%d failed)\n", summary.Success, summary.Total, summary.Failed)
	for _, row := range summary.Results {
		if !row.Success {
			fmt.Printf("  %s: %s\n", row.Name, row.Error)
		}
	}
	return nil
}
