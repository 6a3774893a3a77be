package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the obc release version.
const Version = "0.1.0"

const modulePath = "github.com/buildmesh/obc"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the obc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "obc v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
