// Package main implements the neurotab-convert binary.
// It reads the stimulus streams of a SNIRF recording and writes them out as
// a tabular events file with its JSON sidecar.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurotab/neurotab/internal/config"
	"github.com/neurotab/neurotab/internal/events"
	"github.com/neurotab/neurotab/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		metadata    string
		output      string
		noSidecar   bool
		sortOnset   bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&metadata, "metadata", "none", "Sidecar resolution: search, none, or a sidecar file path")
	flag.StringVar(&output, "out", "", "Output events file (default: input with _events.tsv suffix)")
	flag.BoolVar(&noSidecar, "no-sidecar", false, "Skip writing the JSON sidecar")
	flag.BoolVar(&sortOnset, "sort", false, "Sort events by onset before writing")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "neurotab-convert - SNIRF stimulus to tabular events converter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: neurotab-convert [options] <recording.snirf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  neurotab-convert sub-01_task-tapping_nirs.snirf\n")
		fmt.Fprintf(os.Stderr, "  neurotab-convert --sort --out sub-01_task-tapping_events.tsv recording.snirf\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("neurotab-convert version %s (commit: %s)\n", version, commit)
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

	if output == "" {
		output = defaultOutput(input)
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
	log.Printf("Loaded %d events in %d columns from %s", table.Len(), len(table.ColumnNames()), input)

	if sortOnset || cfg.Convert.SortByOnset {
		table.SortByOnset()
	}

	sidecarPath := ""
	if !noSidecar && cfg.Convert.WriteSidecar {
		sidecarPath = strings.TrimSuffix(output, types.TabularSuffix) + types.SidecarSuffix
	}

	if err := table.Save(output, sidecarPath); err != nil {
		log.Fatalf("Failed to write %s: %v", output, err)
	}

	log.Printf("Wrote %s", output)
	if sidecarPath != "" {
		log.Printf("Wrote %s", sidecarPath)
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

// defaultOutput derives the events file name from the recording path.
func defaultOutput(input string) string {
	base := strings.TrimSuffix(input, types.SNIRFSuffix)
	if idx := strings.LastIndex(base, "_"); idx > strings.LastIndex(base, string(filepath.Separator)) {
		base = base[:idx]
	}
	return base + types.TabularSuffix
}
