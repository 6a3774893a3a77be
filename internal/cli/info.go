package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/pkg/wc"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [dir]",
		Short: "Print the remote identity of a working copy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}
	store := wc.DefaultStore()

	var kind string
	switch {
	case store.IsPackage(dir):
		kind = "package"
	case store.IsProject(dir):
		kind = "project"
	default:
		return fmt.Errorf("%s: %w", dir, wc.ErrNotWorkingCopy)
	}

	apiurl, err := store.Read(dir, wc.EntryAPIURL)
	if err != nil {
		return err
	}
	project, err := store.Read(dir, wc.EntryProject)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Path:    %s\n", dir)
	fmt.Fprintf(out, "Kind:    %s\n", kind)
	fmt.Fprintf(out, "API URL: %s\n", apiurl)
	fmt.Fprintf(out, "Project: %s\n", project)
	if kind == "package" {
		pkg, err := store.Read(dir, wc.EntryPackage)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Package: %s\n", pkg)
	}
	return nil
}
