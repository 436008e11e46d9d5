// Package main implements the neurotab binary.
// It loads an event table from a tabular or SNIRF file, optionally sorts
// it by onset, and prints it as tab-separated text.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/neurotab/neurotab/internal/config"
	"github.com/neurotab/neurotab/internal/events"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		metadata    string
		sortOnset   bool
		column      string
		showColumns bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&metadata, "metadata", "search", "Sidecar resolution: search, none, or a sidecar file path")
	flag.BoolVar(&sortOnset, "sort", false, "Sort events by onset before printing")
	flag.StringVar(&column, "column", "", "Print only the values of the named column")
	flag.BoolVar(&showColumns, "columns", false, "Print column names and descriptions instead of rows")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "neurotab - event table loader\n\n")
		fmt.Fprintf(os.Stderr, "Usage: neurotab [options] <events-file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  neurotab sub-01_task-rest_events.tsv\n")
		fmt.Fprintf(os.Stderr, "  neurotab --sort recording.snirf\n")
		fmt.Fprintf(os.Stderr, "  neurotab --metadata task-rest_events.json --column trial_type sub-01_task-rest_events.tsv\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("neurotab version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg, err := loadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	table := events.New()
	table.SetSearchDepth(cfg.Search.Depth)

	spec, err := metadataSpec(metadata)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := table.Load(input, spec); err != nil {
		log.Fatalf("Failed to load %s: %v", input, err)
	}

	if sortOnset {
		table.SortByOnset()
	}

	switch {
	case showColumns:
		printColumns(table)
	case column != "":
		if err := printColumn(table, column); err != nil {
			log.Fatalf("%v", err)
		}
	default:
		printTable(table)
	}
}

// loadConfig loads configuration from file, environment, and defaults.
func loadConfig(configFile string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func metadataSpec(metadata string) (events.MetadataSpec, error) {
	switch metadata {
	case "search":
		return events.MetadataSearch(), nil
	case "none":
		return events.NoMetadata(), nil
	default:
		if _, err := os.Stat(metadata); err != nil {
			return events.MetadataSpec{}, fmt.Errorf("sidecar file %s: %v", metadata, err)
		}
		return events.MetadataFile(metadata), nil
	}
}

func printTable(table *events.Table) {
	names := table.ColumnNames()
	fmt.Println(strings.Join(names, "\t"))
	for _, row := range table.Rows() {
		fields := make([]string, len(names))
		for i, name := range names {
			if v, ok := row.Get(name); ok && v != nil {
				fields[i] = fmt.Sprint(v)
			}
		}
		fmt.Println(strings.Join(fields, "\t"))
	}
}

func printColumn(table *events.Table, name string) error {
	values, err := table.GetColumn(name)
	if err != nil {
		return err
	}
	for _, v := range values {
		if v == nil {
			fmt.Println()
			continue
		}
		fmt.Println(v)
	}
	return nil
}

func printColumns(table *events.Table) {
	descriptions := table.ColumnDescriptions()
	for _, name := range table.ColumnNames() {
		desc, _ := descriptions[name]["Description"].(string)
		if desc == "" {
			fmt.Println(name)
			continue
		}
		fmt.Printf("%s\t%s\n", name, desc)
	}
}
