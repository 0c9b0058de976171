// Package cli implements the familytree command-line interface: one-shot
// commands on the root and an interactive shell that edits a single
// in-memory tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/internal/logging"
	"github.com/mesh-intelligence/familytree/internal/paths"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code a failed command maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode returns the process exit code for err. Errors that carry no code,
// such as cobra's argument and flag errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app is the state shared by every command of one process.
type app struct {
	configDir string
	logLevel  string

	configPath string
	cfg        types.Config
	logger     *slog.Logger

	// interactive enables forms and confirmation prompts.
	interactive bool
	prompter    Prompter
	generator   func(types.BiographyConfig, *slog.Logger) biography.Generator
}

func newApp() *app {
	fd := os.Stdin.Fd()
	return &app{
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		prompter:    huhPrompter{},
		generator: func(cfg types.BiographyConfig, l *slog.Logger) biography.Generator {
			return biography.NewOpenAI(cfg, l)
		},
		logger: logging.Discard(),
	}
}

// NewRootCmd creates the top-level "familytree" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "familytree",
		Short: "An editor for single-root family trees",
		Long: "familytree keeps a family tree in memory and edits it from an interactive\n" +
			"shell. Biographies are written by an OpenAI-compatible text service.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configDir, flagConfigDir, "", "configuration directory (default: $XDG_CONFIG_HOME/familytree)")
	root.PersistentFlags().StringVar(&a.logLevel, flagLogLevel, "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newShellCmd(a))

	return root
}

// setup resolves the config directory, loads the configuration and builds
// the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	dir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = dir
	a.configPath = paths.ConfigFile(dir)

	cfg, err := loadConfig(dir, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return userError(err)
	}
	a.logger = logger
	logger.Debug("configuration loaded", "config_dir", dir, "seed", cfg.Seed)
	return nil
}

// run executes root with args and reports a failure on errOut. It returns
// the process exit code.
func run(ctx context.Context, root *cobra.Command, args []string, errOut io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
	}
	return exitCode(err)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
