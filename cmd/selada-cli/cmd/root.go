// Package cmd provides the selada-cli commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"selada/internal/cli"
	"selada/internal/config"
	"selada/internal/core"
	applog "selada/internal/log"
	"selada/internal/services"
	"selada/internal/storage"
)

// options are shared by every subcommand.
type options struct {
	dbPath string
	debug  bool
	now    func() time.Time
	logger *applog.Logger
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:   "selada-cli",
		Short: "Bookkeeping for the lettuce farm",
		Long: `selada-cli records sales and purchases and prints the
farm's financial reports from the local SQLite database.

Example:
  selada-cli sale --date 2024-01-01 --kg 10
  selada-cli purchase --date 2024-01-02 --category air --amount 50000
  selada-cli report income
  selada-cli export --out laporan.xlsx`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
			level := os.Getenv("LOG_LEVEL")
			if level == "" {
				level = "warn"
			}
			if opts.debug {
				level = "debug"
			}
			opts.logger = cli.SetupLoggerTo(cmd.ErrOrStderr(), level, applog.ComponentCLI)
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default SQLITE_DB_PATH)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newSaleCmd(opts),
		newPurchaseCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
		newResetCmd(opts),
	)
	return root
}

// openLedger opens the configured store. Events are published when AMQP_URL
// is set so a running worker refreshes its reports.
func (o *options) openLedger() (*services.LedgerService, error) {
	cfg := config.Load()
	if o.dbPath != "" {
		cfg.SQLiteDBPath = o.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var publisher services.EventPublisher
	if client := cli.InitAMQP(o.logger, cfg); client != nil {
		publisher = client
	}
	return services.NewLedgerService(repo, publisher), nil
}

func (o *options) parseDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(o.now()), nil
	}
	return core.ParseDate(s)
}

func closeLedger(o *options, ledger *services.LedgerService) {
	if err := ledger.Close(); err != nil {
		o.logger.Warn("Failed to close ledger", "error", err)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
