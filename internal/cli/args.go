package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"overture/pkg/overture"
)

// RequireHandoffCommand validates that a hand-off command follows the
// run flags. cobra strips the "--" separator, so anything left in args is
// the command line to exec.
func RequireHandoffCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(`%w: missing hand-off command

Usage: %s

Example:
  %s -- supervisord -c /etc/supervisord.conf`, overture.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
