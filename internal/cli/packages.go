package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/pkg/wc"
)

type packagesFlagSet struct {
	add string
	rm  string
}

var packagesFlags packagesFlagSet

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages [dir]",
		Short: "List or change the tracked packages of a project working copy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPackages,
	}
	cmd.Flags().StringVar(&packagesFlags.add, "add", "", "create and track a new package working copy")
	cmd.Flags().StringVar(&packagesFlags.rm, "remove", "", "untrack a package and remove its directory")
	cmd.MarkFlagsMutuallyExclusive("add", "remove")
	return cmd
}

func runPackages(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}
	prj, err := checkout.OpenProject(dir, wc.DefaultStore(), log)
	if err != nil {
		return err
	}

	switch {
	case packagesFlags.add != "":
		pkg, err := prj.AddPackage(packagesFlags.add)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added package %s/%s\n", prj.Name, pkg.Name)
		return nil
	case packagesFlags.rm != "":
		if err := prj.RemovePackage(packagesFlags.rm); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed package %s/%s\n", prj.Name, packagesFlags.rm)
		return nil
	default:
		for _, name := range prj.Packages() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
}
