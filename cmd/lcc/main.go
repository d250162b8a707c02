package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/standardbeagle/lcc/internal/config"
	"github.com/standardbeagle/lcc/internal/engine"
	"github.com/standardbeagle/lcc/internal/index"
	"github.com/standardbeagle/lcc/internal/mcp"
	"github.com/standardbeagle/lcc/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
		cfg.Project.Root = absRoot
	}

	if snap := c.String("snapshot"); snap != "" {
		cfg.Server.SnapshotPath = snap
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if c.IsSet("limit") {
		cfg.Completion.Limit = c.Int("limit")
	}
	return cfg, nil
}

// newLogger builds a stderr logger; stdout stays clean for MCP stdio and
// JSON command output.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func main() {
	app := &cli.App{
		Name:                   "lcc",
		Usage:                  "Lightning fast code completion for AI assistants",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "Static index snapshot (TOML) to load at startup",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Watch files matching glob patterns (e.g., --include '**/*.cc')",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum completion results, 0 = unbounded",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			completeCommand(),
			signatureCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP completion server on stdio",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-add documents when watched files change",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			log, err := newLogger(c.Bool("verbose"))
			if err != nil {
				return err
			}
			defer log.Sync()

			eng := engine.New(
				engine.WithLogger(log),
				engine.WithWorkers(cfg.Server.Workers),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if c.Bool("watch") || cfg.Server.WatchMode {
				debounce := time.Duration(cfg.Server.WatchDebounceMs) * time.Millisecond
				watcher, err := engine.NewWatcher(eng, cfg.Project.Root, cfg.Include, debounce, log)
				if err != nil {
					return err
				}
				if err := watcher.Start(); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			srv, err := mcp.NewServer(eng, cfg, log)
			if err != nil {
				return err
			}
			log.Info("serving MCP on stdio", zap.String("root", cfg.Project.Root))
			return srv.Run(ctx)
		},
	}
}

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Aliases:   []string{"c"},
		Usage:     "One-shot completion at FILE OFFSET, printed as JSON",
		ArgsUsage: "FILE OFFSET",
		Action: func(c *cli.Context) error {
			return oneShot(c, func(ctx context.Context, eng *engine.Engine, req engine.Request) (interface{}, error) {
				return eng.Complete(ctx, req).Get(ctx)
			})
		},
	}
}

func signatureCommand() *cli.Command {
	return &cli.Command{
		Name:      "signature",
		Usage:     "One-shot signature help at FILE OFFSET, printed as JSON",
		ArgsUsage: "FILE OFFSET",
		Action: func(c *cli.Context) error {
			return oneShot(c, func(ctx context.Context, eng *engine.Engine, req engine.Request) (interface{}, error) {
				return eng.SignatureHelp(ctx, req).Get(ctx)
			})
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "Validate an index snapshot and report its symbol count",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: lcc snapshot FILE")
			}
			store, err := index.LoadSnapshot(c.Args().Get(0))
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"path":    c.Args().Get(0),
				"symbols": store.Len(),
			})
		},
	}
}

// oneShot runs a single request against an index-only engine: the file is
// read from disk, the configured snapshot supplies candidates, and the result
// is printed to stdout.
func oneShot(c *cli.Context, run func(context.Context, *engine.Engine, engine.Request) (interface{}, error)) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: %s FILE OFFSET", c.Command.Name)
	}
	path := c.Args().Get(0)
	var offset int
	if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &offset); err != nil {
		return fmt.Errorf("invalid offset %q: %w", c.Args().Get(1), err)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := cfg.Options()
	if cfg.Server.SnapshotPath != "" {
		store, err := index.LoadSnapshot(cfg.Server.SnapshotPath)
		if err != nil {
			return err
		}
		opts.Index = store
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	eng := engine.New(engine.WithLogger(log))
	ctx := context.Background()
	if _, err := eng.AddDocument(ctx, path, string(data)).Get(ctx); err != nil {
		return err
	}

	result, err := run(ctx, eng, engine.Request{Path: path, Offset: offset, Options: opts})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
