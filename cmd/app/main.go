package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/analyze"
	"github.com/starford/ansuz/internal/daily"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/process"
	"github.com/starford/ansuz/internal/project"
	"github.com/starford/ansuz/internal/syncer"
	"github.com/starford/ansuz/internal/syncservice"
	"github.com/starford/ansuz/internal/transcript"
	"github.com/starford/ansuz/internal/vault"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// No config file; run on defaults plus environment.
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("default config invalid: %w", err)
		}
		return cfg, nil
	}
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *internal.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// pipeline holds the sync components the CLI commands share.
type pipeline struct {
	store      *vault.FS
	assembler  *transcript.Assembler
	aggregator *daily.Aggregator
	syncer     *syncer.Syncer
}

func newPipeline(cfg *internal.Config, logger *slog.Logger) (*pipeline, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}
	assembler := transcript.NewAssembler(store, cfg.Vault.TranscriptsFolder, logger)
	aggregator := daily.New(store, cfg.Vault.DailyFolder, logger)
	return &pipeline{
		store:      store,
		assembler:  assembler,
		aggregator: aggregator,
		syncer:     syncer.New(cfg.Granola.CachePath, assembler, aggregator, logger),
	}, nil
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	stats, err := p.syncer.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
	return nil
}

func runProcess(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	var olderThan time.Duration
	if cmd.Bool("auto") {
		olderThan = time.Duration(cfg.Anthropic.AutoProcessAfterHours) * time.Hour
	}

	if cmd.Bool("dry-run") {
		files, err := process.ListUnprocessed(p.store, cfg.Vault.TranscriptsFolder, olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("%d transcript(s) would be processed:\n", len(files))
		for _, f := range files {
			fmt.Println("  " + f)
		}
		return nil
	}

	if !cmd.Bool("all") && !cmd.Bool("auto") && cmd.String("file") == "" {
		return fmt.Errorf("specify --all, --auto, or --file")
	}

	apiKey := cfg.Anthropic.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no Anthropic API key configured (set anthropic.api_key or ANTHROPIC_API_KEY)")
	}

	proc := process.New(process.Config{
		Store:         p.store,
		Folder:        cfg.Vault.TranscriptsFolder,
		ProjectsIndex: cfg.Vault.ProjectsIndex,
		Daily:         p.aggregator,
		Projects:      project.New(p.store, logger),
		Analyzer:      analyze.NewClient(apiKey, cfg.Anthropic.Model, logger),
		Logger:        logger,
	})

	if file := cmd.String("file"); file != "" {
		resolved, ok := proc.ResolveFile(file)
		if !ok {
			return fmt.Errorf("transcript not found: %s", file)
		}
		done, err := proc.ProcessFile(ctx, resolved)
		if err != nil {
			return err
		}
		if done {
			fmt.Printf("Processed %s\n", resolved)
		} else {
			fmt.Printf("Skipped %s\n", resolved)
		}
		return nil
	}

	files, err := process.ListUnprocessed(p.store, cfg.Vault.TranscriptsFolder, olderThan)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("Nothing to process")
		return nil
	}
	processed, err := proc.ProcessAll(ctx, files)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d of %d transcript(s)\n", processed, len(files))
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	svc := syncservice.New(p.store, p.syncer, cfg.Vault.TranscriptsFolder, cfg.Granola.CachePath, logger)

	return mcpserver.New(svc).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Sync Granola meeting transcripts into an Obsidian vault and process them with AI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Import new transcripts from the Granola cache into the vault",
				Action: runSync,
			},
			{
				Name:   "process",
				Usage:  "Run AI analysis over unprocessed transcripts",
				Action: runProcess,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Process every unprocessed transcript",
					},
					&cli.BoolFlag{
						Name:  "auto",
						Usage: "Process only transcripts older than the configured threshold",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Process a single transcript by filename or vault path",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "List what would be processed without calling the API",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
