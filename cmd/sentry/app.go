package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yskaart/sentry/internal/ai"
	"github.com/yskaart/sentry/internal/config"
)

// DefaultConfigPath is used when neither --config nor SENTRY_CONFIG is set.
const DefaultConfigPath = "config/sentry.yaml"

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// App is the sentry command-line application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	configPath string
}

// New creates the CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "sentry",
		Short: "Stealth-guard perception and alert simulation",
		Long: `sentry runs a headless stealth scenario: guards patrol waypoints, spot the
target through a view cone blocked by obstacles, hunt it, and raise a shared
alert level until the mission fails or the target reaches the exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "",
		"Path to scene config (default $SENTRY_CONFIG or "+DefaultConfigPath+")")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newRunCmd(),
		app.newMigrateCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI until it finishes or SIGINT/SIGTERM arrives.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// loadScene resolves the config path, loads the scene and configures logging
// from its log level.
func (a *App) loadScene() (config.Scene, error) {
	path := a.configPath
	if path == "" {
		path = DefaultConfigPath
		if p := os.Getenv("SENTRY_CONFIG"); p != "" {
			path = p
		}
	}

	scene, err := config.LoadScene(path)
	if err != nil {
		return scene, fmt.Errorf("loading scene: %w", err)
	}

	level, err := config.ParseLogLevel(scene.LogLevel)
	if err != nil {
		return scene, fmt.Errorf("loading scene: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: level,
	})))
	ai.EnableDebugLogging(level == slog.LevelDebug)

	slog.Debug("scene loaded", "path", path, "scene", scene.Name)
	return scene, nil
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "sentry version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}
