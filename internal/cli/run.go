package cli

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"overture/internal/boot"
	"overture/internal/config"
	"overture/internal/logging"
	"overture/pkg/overture"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Wait for the database, run maintenance, hand off to the runtime",
	Long: `Run performs the container startup sequence and then replaces itself
with the given command.

The sequence:
1. Load .env (if present) and read the DATABASE_URL descriptor
2. Log the redacted descriptor (credentials masked); warn if absent
3. Pause for the warm-up interval
4. Probe the database until it answers, bounded by the attempt budget
5. Run the maintenance steps in order (migration failures are tolerated)
6. Prepare the writable working directories
7. Exec the command, inheriting PID, signals, and environment

Examples:
  # Default supervised runtime
  overture run -- supervisord -c /etc/supervisord.conf

  # Development: shorter wait, direct php-fpm
  overture run --warmup 0 --max-attempts 5 -- php-fpm --nodaemonize`,
	Args: RequireHandoffCommand,
	RunE: runRun,
}

type runFlagValues struct {
	connection  string
	configDir   string
	warmup      time.Duration
	interval    time.Duration
	maxAttempts int
	backoff     string
}

var runFlags runFlagValues

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.connection, "connection", "",
		"Database connection descriptor (URI or keyword/value form).\n"+
			"Alternative: DATABASE_URL environment variable.")
	runCmd.Flags().StringVar(&runFlags.configDir, "config", ".",
		"Directory containing overture.yaml")
	runCmd.Flags().DurationVar(&runFlags.warmup, "warmup", 0,
		"Warm-up pause before the first probe (default 5s)")
	runCmd.Flags().DurationVar(&runFlags.interval, "interval", 0,
		"Spacing between health probes (default 2s)")
	runCmd.Flags().IntVar(&runFlags.maxAttempts, "max-attempts", 0,
		"Probe budget before giving up with exit 1 (default 30)")
	runCmd.Flags().StringVar(&runFlags.backoff, "backoff", "",
		"Probe spacing policy: constant | exponential (default constant)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// .env participates as environment during resolution but never
	// overrides variables the platform set.
	_ = godotenv.Load()

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	logger.Verbose("invocation %s", uuid.NewString())

	cfg, err := resolveRunConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return boot.NewOrchestrator(cfg, logger).Run(ctx)
}

func resolveRunConfig(cmd *cobra.Command, argv []string) (*overture.RunConfig, error) {
	fileCfg, err := config.Load(runFlags.configDir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		fileCfg = nil
	}

	flags := config.Flags{
		Connection:  runFlags.connection,
		Warmup:      runFlags.warmup,
		WarmupSet:   cmd.Flags().Changed("warmup"),
		Interval:    runFlags.interval,
		IntervalSet: cmd.Flags().Changed("interval"),
		MaxAttempts: runFlags.maxAttempts,
		Backoff:     runFlags.backoff,
	}
	return config.Resolve(flags, fileCfg, argv)
}
