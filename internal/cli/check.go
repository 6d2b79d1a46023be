package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"overture/internal/config"
	"overture/internal/db"
	"overture/internal/logging"
	"overture/pkg/overture"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "One-shot database health probe",
	Long: `Check performs a single round-trip health query against the database
and exits 0 when it answers, 1 when it does not. No retries, no warm-up.

Intended as a container HEALTHCHECK:
  HEALTHCHECK --interval=30s --timeout=3s CMD ["overture", "check"]`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFlags struct {
	connection string
	timeout    time.Duration
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.connection, "connection", "",
		"Database connection descriptor (default: DATABASE_URL)")
	checkCmd.Flags().DurationVar(&checkFlags.timeout, "timeout", overture.DefaultCheckTimeout,
		"Probe timeout")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	connString := checkFlags.connection
	if connString == "" {
		connString = os.Getenv(config.EnvConnString)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkFlags.timeout)
	defer cancel()

	pinger, err := db.NewPoolPinger(ctx, connString)
	if err != nil {
		logger.Error("health check failed: %v", err)
		return errors.Join(overture.ErrDependencyUnavailable, err)
	}
	defer pinger.Close()

	if err := pinger.Ping(ctx); err != nil {
		logger.Error("health check failed: %v", err)
		return fmt.Errorf("%w: %v", overture.ErrDependencyUnavailable, err)
	}

	logger.Verbose("database answered within %s", checkFlags.timeout)
	return nil
}
