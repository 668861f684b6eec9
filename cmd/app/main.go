package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/ehwaz/internal"
	pkgconfig "github.com/starford/ehwaz/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	args := cmd.Args()
	if args.Len() != 2 {
		return fmt.Errorf("expected exactly two arguments: <sync-dir> <files-dir>")
	}
	syncDir, err := filepath.Abs(args.Get(0))
	if err != nil {
		return fmt.Errorf("resolve sync dir: %w", err)
	}
	filesDir, err := filepath.Abs(args.Get(1))
	if err != nil {
		return fmt.Errorf("resolve files dir: %w", err)
	}
	cfg.Sync.Path = syncDir
	cfg.Files.Path = filesDir

	// Flags override config file values.
	if v := cmd.String("mode"); v != "" {
		cfg.Link.Mode = v
	}
	if v := cmd.String("attach-config"); v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("resolve attach config: %w", err)
		}
		cfg.Link.AttachConfig = abs
	}
	if cmd.Bool("watch") {
		cfg.App.Watch = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "ehwaz",
		Usage:     "Turn a directory of attachment files into a Joplin RAW import bundle",
		ArgsUsage: "<sync-dir> <files-dir>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (optional)",
				Sources: cli.EnvVars("EHWAZ_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Link mode: \"resource\" (managed resources) or \"file\" (file:// links)",
				Sources: cli.EnvVars("EHWAZ_LINK_MODE"),
			},
			&cli.StringFlag{
				Name:    "attach-config",
				Aliases: []string{"a"},
				Usage:   "Path to the attach-directory table (required in file mode)",
				Sources: cli.EnvVars("EHWAZ_ATTACH_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and import files as they appear",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
