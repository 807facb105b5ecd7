// Package commands implements the networthctl command tree.
package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"networth/internal/cli"
	"networth/internal/config"
	"networth/internal/log"
	"networth/internal/services"
)

// app is the state shared by every subcommand for one invocation.
type app struct {
	cfg      *config.Config
	dbPath   string
	currency string
	output   string
	logLevel string

	svc *services.NetWorthService
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "networthctl",
		Short: "Manage net-worth line items from the terminal",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.dbPath, "db", a.cfg.SQLiteDBPath, "SQLite database path (env SQLITE_DB_PATH)")
	flags.StringVar(&a.currency, "currency", a.cfg.Currency, "ISO currency used to display amounts (env CURRENCY)")
	flags.StringVarP(&a.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(
		newListCommand(a),
		newAddCommand(a),
		newShowCommand(a),
		newEditCommand(a),
		newRemoveCommand(a),
		newTotalsCommand(a),
		newSharesCommand(a),
	)

	// Close the store after every subcommand, including failed ones
	for _, c := range rootCmd.Commands() {
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if cerr := a.close(); err == nil {
				err = cerr
			}
			return err
		}
	}

	return rootCmd
}

func (a *app) open(ctx context.Context, stderr io.Writer) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.currency = strings.ToUpper(strings.TrimSpace(a.currency))

	logger := cli.SetupLogger(a.logLevel, stderr).WithComponent(log.ComponentCLI)

	cfg := *a.cfg
	cfg.SQLiteDBPath = a.dbPath
	svc, err := cli.InitService(ctx, logger, &cfg)
	if err != nil {
		return err
	}
	a.svc = svc
	return nil
}

func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
