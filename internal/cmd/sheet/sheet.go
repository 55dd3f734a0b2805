// Package sheet builds the savagesheet command line: recompute and validate
// character documents, browse the catalog and manage stored characters.
package sheet

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/savagesheet/internal/platform/cmd"
	"github.com/louisbranch/savagesheet/internal/platform/logging"
	"github.com/louisbranch/savagesheet/internal/services/sheet/app"
)

// Config holds sheet command configuration.
type Config struct {
	Runtime app.RuntimeConfig
	Logging logging.Config
}

// ParseConfig loads Config defaults from the environment. Flags on the
// root command override them.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// cli is the state shared by every subcommand of one invocation.
type cli struct {
	cfg    Config
	out    io.Writer
	logger *zap.Logger
	rt     *app.Runtime
}

func newCLI(cfg Config, out io.Writer) *cli {
	return &cli{cfg: cfg, out: out}
}

// root returns the sheet command tree writing results to c.out.
func (c *cli) root() *cobra.Command {
	cfg := c.cfg
	root := &cobra.Command{
		Use:           "sheet",
		Short:         "Build, check and store Savage Worlds character sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.start(cmd.Context())
		},
	}
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.Runtime.CatalogDir, "catalog", cfg.Runtime.CatalogDir, "catalog content directory")
	flags.StringVar(&c.cfg.Runtime.SettingPath, "setting", cfg.Runtime.SettingPath, "setting YAML file")
	flags.StringVar(&c.cfg.Runtime.DBPath, "db", cfg.Runtime.DBPath, "SQLite database for stored characters")
	flags.StringVar(&c.cfg.Logging.Mode, "log-mode", cfg.Logging.Mode, "log mode: dev, prod or nop")

	root.AddCommand(
		c.newRecomputeCmd(),
		c.newValidateCmd(),
		c.newCatalogCmd(),
		c.newSaveCmd(),
		c.newLoadCmd(),
		c.newListCmd(),
		c.newDeleteCmd(),
	)
	return root
}

func (c *cli) start(ctx context.Context) error {
	logger, err := logging.New(c.cfg.Logging)
	if err != nil {
		return err
	}
	c.logger = logger
	c.rt, err = app.Bootstrap(ctx, c.cfg.Runtime, logger)
	return err
}

func (c *cli) stop() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	err := c.rt.Close()
	c.rt = nil
	return err
}

// Execute runs the command line in args and closes whatever the command
// opened, including after a failed run.
func Execute(ctx context.Context, cfg Config, args []string, out io.Writer) (err error) {
	c := newCLI(cfg, out)
	root := c.root()
	root.SetArgs(args)
	defer func() {
		err = errors.Join(err, c.stop())
	}()
	return root.ExecuteContext(ctx)
}

// Run executes the command line in args inside a telemetry scope.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSheet, func(ctx context.Context) error {
		return Execute(ctx, cfg, args, out)
	})
}
