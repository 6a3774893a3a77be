package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/pkg/wc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [dir]",
		Short: "Show the state of a working copy",
		Long: "For a package working copy, list tracked files and their states.\n" +
			"For a project working copy, list tracked packages.",
		Args: cobra.MaximumNArgs(1),
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}
	store := wc.DefaultStore()

	switch {
	case store.IsPackage(dir):
		pkg, err := checkout.OpenPackage(dir, store, log)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"State", "File"})
		for _, name := range pkg.Files() {
			table.Append([]string{string(pkg.State(name)), name})
		}
		table.Render()
		return nil
	case store.IsProject(dir):
		prj, err := checkout.OpenProject(dir, store, log)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"State", "Package"})
		for _, name := range prj.Packages() {
			state, _ := prj.PackageState(name)
			table.Append([]string{state, name})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("%s: %w", dir, wc.ErrNotWorkingCopy)
	}
}
