package commands

import (
	"context"
	"io"
	"time"

	"github.com/localnerve/ecommerce-api/cmd/shopctl/output"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Wait flags
	waitTimeout  time.Duration
	waitInterval time.Duration
	waitURL      string
)

// waitCmd blocks until the database port answers
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the database (or a service) accepts connections",
	Long: `Poll DB_HOST:DB_PORT until a TCP connection succeeds or the timeout
expires. File based databases have no address and fail immediately.
With --url, poll the host and port of that URL instead.

Examples:
  shopctl wait
  shopctl wait --timeout 2m --interval 5s
  shopctl wait --url http://api:3000/health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if waitURL != "" {
			return runWaitService(ctx, cmd.OutOrStdout(), waitURL, waitTimeout, waitInterval)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runWait(ctx, cmd.OutOrStdout(), cfg, waitTimeout, waitInterval)
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", time.Minute, "Give up after this long")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", time.Second, "Time between attempts")
	waitCmd.Flags().StringVar(&waitURL, "url", "", "Wait for this service URL instead of the database")
}

func runWait(ctx context.Context, w io.Writer, cfg *config.Config, timeout, interval time.Duration) error {
	address, err := utils.DatabaseAddress(cfg)
	if err != nil {
		return err
	}

	output.Info(w, "Waiting for %s at %s", cfg.DBType, address)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := utils.WaitForAddress(ctx, address, interval); err != nil {
		return err
	}

	output.Success(w, "%s is up after %s", address, time.Since(start).Round(time.Millisecond))
	return nil
}

func runWaitService(ctx context.Context, w io.Writer, serviceURL string, timeout, interval time.Duration) error {
	output.Info(w, "Waiting for %s", serviceURL)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := utils.WaitForService(ctx, serviceURL, interval); err != nil {
		return err
	}

	output.Success(w, "%s is up after %s", serviceURL, time.Since(start).Round(time.Millisecond))
	return nil
}
