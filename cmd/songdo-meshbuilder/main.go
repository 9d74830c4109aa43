// Command songdo-meshbuilder turns building and road GeoJSON into the
// chunked binary mesh format the renderer consumes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ximhear/songdo-meshbuilder/internal/chunk"
	"github.com/ximhear/songdo-meshbuilder/internal/config"
	"github.com/ximhear/songdo-meshbuilder/internal/ledger"
	"github.com/ximhear/songdo-meshbuilder/internal/pipeline"
	"github.com/ximhear/songdo-meshbuilder/internal/upload"
)

func main() {
	configPath := flag.String("config", ".env", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	args := flag.Args()
	if *help || len(args) == 0 {
		showHelp()
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	command := args[0]
	switch command {
	case "build":
		cmdBuild(args[1:], configPath)
	case "upload":
		cmdUpload(args[1:], configPath)
	case "verify":
		cmdVerify(args[1:])
	case "run-status":
		cmdRunStatus(args[1:], configPath)
	default:
		slog.Error("unknown command", "command", command)
		showHelp()
		os.Exit(1)
	}
}

func cmdBuild(args []string, configPath *string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	skipUpload := fs.Bool("skip-upload", true, "Skip object storage upload after build")
	skipLedger := fs.Bool("skip-ledger", true, "Skip recording the run in the Postgres ledger")
	fs.Parse(args)

	regions := fs.Args()
	if len(regions) == 0 {
		slog.Error("at least one region required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var db *ledger.Ledger
	if !*skipLedger {
		db, err = ledger.Open(cfg.Database)
		if err != nil {
			slog.Warn("failed to connect to ledger database (continuing without run tracking)", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	var uploader *upload.Client
	if !*skipUpload {
		uploader, err = upload.NewClient(cfg.S3)
		if err != nil {
			slog.Error("failed to initialize upload client", "error", err)
			os.Exit(1)
		}
	}

	p := pipeline.New(cfg, db, uploader)

	ctx := context.Background()
	for _, region := range regions {
		summary, err := p.Run(ctx, region)
		if err != nil {
			slog.Error("build failed", "region", region, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d chunks, %d buildings, %d roads, %d bytes\n",
			summary.Region, summary.ChunkCount, summary.BuildingCount, summary.RoadCount, summary.TotalSize)
		if len(summary.SkippedInputs) > 0 {
			slog.Warn("some input features were skipped", "region", region, "count", len(summary.SkippedInputs))
		}
	}
}

func cmdUpload(args []string, configPath *string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	uploader, err := upload.NewClient(cfg.S3)
	if err != nil {
		slog.Error("failed to initialize upload client", "error", err)
		os.Exit(1)
	}

	bytes, err := uploader.UploadDirectory(context.Background(), cfg.Paths.OutputDir)
	if err != nil {
		slog.Error("upload failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("uploaded %d bytes from %s\n", bytes, cfg.Paths.OutputDir)
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Parse(args)

	dirs := fs.Args()
	if len(dirs) == 0 {
		slog.Error("usage: songdo-meshbuilder verify <output-dir>")
		os.Exit(1)
	}

	ok := true
	for _, dir := range dirs {
		if err := verifyOutputDir(dir); err != nil {
			slog.Error("verification failed", "dir", dir, "error", err)
			ok = false
			continue
		}
		fmt.Printf("%s: OK\n", dir)
	}
	if !ok {
		os.Exit(1)
	}
}

func verifyOutputDir(dir string) error {
	report, err := chunk.Verify(dir)
	if err != nil {
		return err
	}
	if !report.OK {
		for _, p := range report.Problems {
			slog.Error("integrity problem", "detail", p)
		}
		return fmt.Errorf("%d problems found across %d chunks", len(report.Problems), report.ChunkCount)
	}
	return nil
}

func cmdRunStatus(args []string, configPath *string) {
	fs := flag.NewFlagSet("run-status", flag.ExitOnError)
	fs.Parse(args)

	runIDs := fs.Args()
	if len(runIDs) == 0 {
		slog.Error("usage: songdo-meshbuilder run-status <run-id> [run-id2] ...")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := ledger.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to ledger database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	ok := true
	for _, runID := range runIDs {
		run, err := db.GetRun(ctx, runID)
		if err != nil {
			slog.Error("failed to fetch run", "run", runID, "error", err)
			ok = false
			continue
		}
		fmt.Printf("%s: region=%s status=%s chunks=%d buildings=%d roads=%d bytes=%d\n",
			run.ID, run.Region, run.Status, run.ChunkCount, run.BuildingCount, run.RoadCount, run.TotalSizeBytes)
		if run.ErrorMessage.Valid {
			fmt.Printf("  error: %s\n", run.ErrorMessage.String)
		}
	}
	if !ok {
		os.Exit(1)
	}
}

func showHelp() {
	help := `songdo-meshbuilder - build chunked 3D meshes from OSM building and road GeoJSON

Usage:
  songdo-meshbuilder [global options] <command> [command options] [arguments]

Global Options:
  -config string    Path to .env configuration file (default ".env")
  -debug            Enable debug logging
  -help             Show this help message

Commands:
  build             Build chunk files and an index manifest for one or more regions
  upload            Upload a previously built output directory to object storage
  verify            Verify the integrity of one or more built output directories
  run-status        Look up one or more runs recorded in the Postgres ledger

Build Command:
  Usage: songdo-meshbuilder build [options] <region> [region2] ...

  Options:
    -skip-upload      Skip object storage upload after build (default true)
    -skip-ledger      Skip recording the run in the Postgres ledger (default true)
`
	fmt.Println(help)
}
