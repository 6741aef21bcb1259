// Package main is the psoquery command-line tool: it loads an on-disk RDF
// database and answers SPARQL queries read from a file, or drops into a
// REPL that repeatedly prompts for a query file path, mirroring the
// original psoQuery.cpp entry point.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pso/internal/config"
	"pso/internal/engine"
	"pso/internal/logging"
	"pso/internal/resultfmt"
	"pso/internal/store"
)

func main() {
	var configPath, format string

	rootCmd := &cobra.Command{
		Use:   "psoquery <db_name> [query_file]",
		Short: "Query an RDF triple-store database with a SPARQL subset",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			queryFile := ""
			if len(args) == 2 {
				queryFile = args[1]
			}
			return run(args[0], queryFile, configPath, format)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a psoql TOML config file")
	rootCmd.Flags().StringVarP(&format, "format", "f", "human", "output format: human or json")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(dbName, queryFile, configPath, format string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	formatter, err := resultfmt.NewFormatter(format)
	if err != nil {
		return err
	}

	opts := store.Options{Root: cfg.Database.Root, MaxWorkers: cfg.Database.MaxWorkers, Log: log}

	if queryFile != "" {
		return runOnce(dbName, queryFile, opts, log, formatter)
	}
	return runREPL(dbName, opts, log, formatter)
}

func runOnce(dbName, queryFile string, opts store.Options, log *zap.SugaredLogger, formatter resultfmt.Formatter) error {
	sparql, err := os.ReadFile(queryFile)
	if err != nil {
		return fmt.Errorf("cannot open query file %q: %w", queryFile, err)
	}

	parsed, err := engine.Parse(string(sparql))
	if err != nil {
		return err
	}

	start := time.Now()
	db, err := store.LoadPartial(dbName, parsed.Predicates, opts)
	if err != nil {
		return fmt.Errorf("load database: %w", err)
	}
	log.Infow("database loaded", "db", dbName, "predicates", parsed.Predicates, "elapsed", time.Since(start))

	eng := engine.New(db, log)
	result, err := eng.RunParsed(parsed)
	if err != nil {
		return err
	}
	log.Infow("query complete", "elapsed", eng.LastQueryTime())
	return printResult(result, formatter)
}

func runREPL(dbName string, opts store.Options, log *zap.SugaredLogger, formatter resultfmt.Formatter) error {
	start := time.Now()
	db, err := store.LoadAll(dbName, opts)
	if err != nil {
		return fmt.Errorf("load database: %w", err)
	}
	log.Infow("database loaded", "db", dbName, "elapsed", time.Since(start))

	eng := engine.New(db, log)
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("\nquery > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "q" {
			return nil
		}

		sparql, err := os.ReadFile(line)
		if err != nil {
			fmt.Printf("cannot open file: %s\n", line)
			continue
		}

		result, err := eng.Run(string(sparql))
		if err != nil {
			fmt.Printf("query error: %v\n", err)
			continue
		}
		log.Infow("query complete", "elapsed", eng.LastQueryTime())
		if err := printResult(result, formatter); err != nil {
			fmt.Printf("format error: %v\n", err)
		}
	}
}

func printResult(result *engine.Result, formatter resultfmt.Formatter) error {
	formatted, err := formatter.FormatResult(result)
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}
