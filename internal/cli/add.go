package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/pkg/wc"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Track files in the enclosing package working copy",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		pkg, name, err := openEnclosingPackage(arg)
		if err != nil {
			return err
		}
		if err := pkg.Track(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "A    %s\n", arg)
	}
	return nil
}

// openEnclosingPackage opens the package working copy containing path
// and returns it together with the file name relative to its root.
func openEnclosingPackage(path string) (*checkout.Package, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	store := wc.DefaultStore()
	root, ok := store.Parent(abs)
	if !ok || !store.IsPackage(root) {
		return nil, "", fmt.Errorf("%s: %w", path, wc.ErrNotWorkingCopy)
	}
	pkg, err := checkout.OpenPackage(root, store, log)
	if err != nil {
		return nil, "", err
	}
	name, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, "", err
	}
	return pkg, name, nil
}
