package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"overture/internal/logging"
	"overture/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the deployment packaging files for a project",
	Long: `Init writes the static deployment artifacts into the given directory
(default: current directory):

  Dockerfile                multi-stage image build
  docker/nginx.conf         reverse-proxy routing rules
  docker/supervisord.conf   process supervision declarations
  overture.yaml             startup configuration
  .env.example              environment template

Existing files are never overwritten; the command aborts on the first
conflict without writing anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	if err := scaffold.NewScaffolder(logger).Write(target); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	logger.Info("deployment files written to %s", target)
	return nil
}
