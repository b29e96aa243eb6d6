package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/internal/bootstrap"
	"github.com/joseph-ayodele/einvoice/internal/common"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfg    *common.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	var envFile, logLevel string

	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Extract, validate and serialize invoices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}
			c.cfg = common.LoadConfig()
			if logLevel != "" {
				c.cfg.LogLevel = logLevel
			}
			c.out = cmd.OutOrStdout()
			// stdout carries command output
			c.logger = bootstrap.NewLogger(cmd.ErrOrStderr(), c.cfg.LogLevel)
			slog.SetDefault(c.logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file to load (default .env if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")

	root.AddCommand(
		newExtractCmd(c),
		newTextCmd(c),
		newSerializeCmd(c),
		newRequirementsCmd(c),
		newBatchCmd(c),
		newWatchCmd(c),
		newJobsCmd(c),
		newDBCheckCmd(c),
	)
	return root
}

func (c *cli) app(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.New(ctx, c.cfg, c.logger)
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
