package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfill"
	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/inputs"
	"github.com/goliatone/go-formfill/pkg/notify"
	"github.com/goliatone/go-formfill/pkg/render"
	"github.com/goliatone/go-formfill/pkg/session"
	"github.com/goliatone/go-formfill/pkg/store"
)

const (
	envStateDir = "FORMFILL_STATE_DIR"
	envKey      = "FORMFILL_KEY"

	// currentKey remembers the storage key of the last scenario used so
	// later commands can omit --scenario.
	currentKey store.Key = "formfill.current"
)

type cli struct {
	scenarioPath string
	stateDir     string
	key          string
	noColor      bool
	verbose      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	driver session.PromptDriver
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := c.root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "formfill",
		Short: "Fill JSON documents through scenario forms",
		Long: `formfill collects data for a scenario, a template plus the inputs that
feed it, and renders the template with the collected data. State is kept
between runs in the state directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(c.stdin)
	rootCmd.SetOut(c.stdout)
	rootCmd.SetErr(c.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.scenarioPath, "scenario", "s", "", "Scenario file (JSON or YAML)")
	flags.StringVar(&c.stateDir, "state-dir", os.Getenv(envStateDir), "Directory holding saved state (env "+envStateDir+")")
	flags.StringVarP(&c.key, "key", "k", os.Getenv(envKey), "Storage key, derived from the scenario name when empty (env "+envKey+")")
	flags.BoolVar(&c.noColor, "no-color", false, "Disable colored notifications")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug information to stderr")

	rootCmd.AddCommand(
		c.fillCmd(),
		c.getCmd(),
		c.setCmd(),
		c.resizeCmd(),
		c.removeCmd(),
		c.renderCmd(),
		c.patchCmd(),
		c.exportCmd(),
		c.resetCmd(),
		c.importCmd(),
	)
	return rootCmd
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
}

func (c *cli) store() (*store.FileStore, error) {
	dir := strings.TrimSpace(c.stateDir)
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(base, "formfill")
	}
	return store.NewFileStore(dir)
}

// open builds the App and restores its state. Without --scenario or --key
// the last used state is resumed. A scenario file that differs from the
// saved scenario replaces it and clears the data.
func (c *cli) open(cmd *cobra.Command) (context.Context, *formfill.App, error) {
	logger := c.logger()
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	var (
		scenario *inputs.Scenario
		files    = os.DirFS(".")
		err      error
	)
	if c.scenarioPath != "" {
		scenario, err = inputs.LoadFile(c.scenarioPath)
		if err != nil {
			return nil, nil, err
		}
		files = os.DirFS(filepath.Dir(c.scenarioPath))
	}

	fileStore, err := c.store()
	if err != nil {
		return nil, nil, err
	}
	engine, err := render.New(render.WithFS(files))
	if err != nil {
		return nil, nil, err
	}

	var consoleOpts []notify.ConsoleOption
	if c.noColor {
		consoleOpts = append(consoleOpts, notify.WithColor(false))
	}
	bus := notify.NewBus()
	bus.Subscribe(notify.NewConsole(c.stderr, consoleOpts...).Handle)

	opts := []formfill.Option{
		formfill.WithStore(fileStore),
		formfill.WithRenderer(engine),
		formfill.WithBus(bus),
		formfill.WithLogger(logger),
	}
	switch {
	case c.key != "":
		opts = append(opts, formfill.WithStorageKey(store.Key(c.key)))
	case scenario == nil:
		if last, err := fileStore.Load(ctx, currentKey); err == nil {
			opts = append(opts, formfill.WithStorageKey(store.Key(last)))
		}
	}

	app, err := formfill.New(scenario, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Open(ctx); err != nil {
		if errors.Is(err, formfill.ErrNoScenario) {
			return nil, nil, errors.New("no saved state found, pass --scenario")
		}
		return nil, nil, err
	}
	if scenario != nil && !sameScenario(scenario, app.Scenario()) {
		logger.Info("scenario file changed, starting over", "path", c.scenarioPath)
		if err := app.LoadScenario(ctx, scenario); err != nil {
			return nil, nil, err
		}
	}
	if err := fileStore.Save(ctx, currentKey, []byte(app.Key())); err != nil {
		logger.Warn("remember current scenario", "error", err)
	}
	return ctx, app, nil
}

func sameScenario(a, b *inputs.Scenario) bool {
	if a == nil || b == nil {
		return a == b
	}
	left, err := a.Encode(false)
	if err != nil {
		return false
	}
	right, err := b.Encode(false)
	if err != nil {
		return false
	}
	return string(left) == string(right)
}
