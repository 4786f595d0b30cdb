package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/notexe/simfixtures/internal/config"
	"github.com/notexe/simfixtures/internal/fixtures"
	"github.com/notexe/simfixtures/internal/ios"
	"github.com/notexe/simfixtures/internal/logging"
	"github.com/notexe/simfixtures/internal/ui"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	configPath string
	homeDir    string
	logLevel   string
	noColor    bool

	cfg         *config.Config
	logger      *slog.Logger
	simctl      *ios.SimCtl
	provisioner *fixtures.Provisioner
	formatter   *ui.Formatter
}

// run executes the CLI and returns the process exit code. Errors are printed
// to stderr, uncoloured when --no-color was given.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, ui.NewFormatter(!a.noColor).FormatError(err))
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simfixtures",
		Short: "Seed fixture files into iOS simulator app sandboxes",
		Long: `simfixtures copies test fixture files into the Documents directory of the
app data container on an iOS simulator, right before the app under test is
launched, so end-to-end tests start with pre-seeded data.

The container is found by picking the most recently modified directory under
~/Library/Developer/CoreSimulator/Devices/<udid>/data/Containers/Data/Application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.GetDefaultConfigPath(), "Path to config file")
	root.PersistentFlags().StringVar(&a.homeDir, "home", "", "Home directory containing Library/Developer/CoreSimulator (default: current user)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newSeedCmd(a),
		newLaunchCmd(a),
		newFindContainerCmd(a),
		newDevicesCmd(a),
		newServeCmd(a),
		newCheckCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.homeDir != "" {
		cfg.Simulator.HomeDir = a.homeDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// stdout is reserved for command output and the MCP stdio transport.
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	list, err := cfg.Fixtures()
	if err != nil {
		return err
	}

	opts := []fixtures.Option{fixtures.WithLogger(logging.FixtureLogger{Logger: logger})}
	if cfg.Simulator.HomeDir != "" {
		opts = append(opts, fixtures.WithHomeDir(cfg.Simulator.HomeDir))
	}

	a.cfg = cfg
	a.logger = logger
	a.simctl = ios.NewSimCtl()
	a.provisioner = fixtures.New(list, opts...)
	a.formatter = ui.NewFormatter(!a.noColor)
	return nil
}

// device returns the --device flag value, falling back to the configured
// default, resolved to a UDID.
func (a *app) device(cmd *cobra.Command, flag string) (string, error) {
	if flag == "" {
		flag = a.cfg.Simulator.Device
	}
	return a.simctl.ResolveDevice(cmd.Context(), flag)
}
