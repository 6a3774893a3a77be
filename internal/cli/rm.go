package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>...",
		Short: "Untrack files in the enclosing package working copy",
		Long:  "Untrack files. The files themselves are left on disk.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		pkg, name, err := openEnclosingPackage(arg)
		if err != nil {
			return err
		}
		if err := pkg.Untrack(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "D    %s\n", arg)
	}
	return nil
}
