// Package main is the psobuild command-line tool: it builds an on-disk RDF
// database from a raw triple file, mirroring the original psoBuild.cpp
// entry point.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pso/internal/config"
	"pso/internal/logging"
	"pso/internal/store"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "psobuild <db_name> <raw_rdf_file_path>",
		Short: "Build an RDF triple-store database from a raw triple file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBuild(args[0], args[1], configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a psoql TOML config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuild(dbName, dataFile, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Infow("creating database", "db", dbName, "path", dataFile)

	start := time.Now()
	db, err := store.Create(dbName, dataFile, store.Options{
		Root:       cfg.Database.Root,
		MaxWorkers: cfg.Database.MaxWorkers,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("build database: %w", err)
	}

	log.Infow("database created", "db", dbName,
		"triples", db.TripleCount(),
		"predicates", db.PredicateCount(),
		"entities", db.EntityCount(),
		"elapsed", time.Since(start))
	return nil
}
