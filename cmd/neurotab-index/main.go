// Package main implements the neurotab-index binary.
// It maintains the SQLite catalog of event files: scanning dataset trees,
// fetching remote datasets into the local cache, and answering queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/neurotab/neurotab/internal/catalog"
	"github.com/neurotab/neurotab/internal/config"
	"github.com/neurotab/neurotab/internal/storage"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		catalogPath string
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&catalogPath, "catalog", "", "Catalog database file (overrides config)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "neurotab-index - event file catalog\n\n")
		fmt.Fprintf(os.Stderr, "Usage: neurotab-index [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  scan <root>      Index every event file under root\n")
		fmt.Fprintf(os.Stderr, "  list <root>      List catalogued files under root\n")
		fmt.Fprintf(os.Stderr, "  find <task>      List catalogued files with the given task label\n")
		fmt.Fprintf(os.Stderr, "  fetch <prefix>   Stage a remote dataset prefix into the cache and index it\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  neurotab-index scan /data/ds001\n")
		fmt.Fprintf(os.Stderr, "  neurotab-index find tapping\n")
		fmt.Fprintf(os.Stderr, "  NEUROTAB_STORAGE_TYPE=s3 NEUROTAB_S3_BUCKET=datasets neurotab-index fetch ds001\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("neurotab-index version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	arg := flag.Arg(1)

	cfg, err := loadConfig(configFile, catalogPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer cat.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch command {
	case "scan":
		err = runScan(ctx, cat, arg)
	case "list":
		err = runList(ctx, cat, arg)
	case "find":
		err = runFind(ctx, cat, arg)
	case "fetch":
		err = runFetch(ctx, cfg, cat, arg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, catalogPath string) (*config.Config, error) {
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

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runScan(ctx context.Context, cat *catalog.Catalog, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	scanner := &catalog.Scanner{Catalog: cat}
	result, err := scanner.Scan(ctx, abs)
	if err != nil {
		return err
	}

	fmt.Printf("scan %s: %d seen, %d indexed, %d failed\n",
		result.ScanID, result.FilesSeen, result.FilesIndexed, result.FilesFailed)
	return nil
}

func runList(ctx context.Context, cat *catalog.Catalog, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	files, err := cat.ListFiles(ctx, abs)
	if err != nil {
		return err
	}
	printFiles(files)
	return nil
}

func runFind(ctx context.Context, cat *catalog.Catalog, task string) error {
	files, err := cat.FindByTask(ctx, task)
	if err != nil {
		return err
	}
	printFiles(files)
	return nil
}

// runFetch stages every object under prefix into the local cache, then
// indexes the staged tree.
func runFetch(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, prefix string) error {
	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return err
	}

	objects, err := fetcher.List(ctx, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return fmt.Errorf("no objects under prefix %q", prefix)
	}

	for _, obj := range objects {
		dest := filepath.Join(cfg.Storage.CacheDir, filepath.FromSlash(obj))
		if err := fetcher.Fetch(ctx, obj, dest); err != nil {
			return fmt.Errorf("fetching %s: %w", obj, err)
		}
	}
	log.Printf("Fetched %d objects under %s", len(objects), prefix)

	return runScan(ctx, cat, filepath.Join(cfg.Storage.CacheDir, filepath.FromSlash(prefix)))
}

func newFetcher(ctx context.Context, cfg *config.Config) (storage.Fetcher, error) {
	switch cfg.Storage.Type {
	case "s3":
		return storage.NewS3Fetcher(ctx, cfg.Storage.S3.Bucket, storage.S3Config{
			Region:   cfg.Storage.S3.Region,
			Endpoint: cfg.Storage.S3.Endpoint,
		})
	default:
		return storage.NewLocalFetcher(cfg.Storage.Path)
	}
}

func printFiles(files []*catalog.FileRecord) {
	for _, f := range files {
		fmt.Printf("%s\t%s\ttask=%s\trows=%d\tcols=%d\t%s\n",
			f.RelPath, f.Kind, f.Task, f.RowCount, f.ColumnCount, f.Fingerprint)
	}
}
