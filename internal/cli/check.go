package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/pkg/wc"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Report the consistency of a working copy",
		Long: "Verify the store format and required entries of a working copy and\n" +
			"report problems. Nothing is repaired.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}
	store := wc.DefaultStore()
	out := cmd.OutOrStdout()

	if !store.HasStore(dir) {
		return fmt.Errorf("%s: %w", dir, wc.ErrNotWorkingCopy)
	}
	if err := store.VerifyFormat(dir); err != nil {
		return err
	}

	var checkErr error
	switch {
	case store.IsPackage(dir):
		checkErr = checkout.CheckPackage(dir, store)
	case store.IsProject(dir):
		checkErr = checkout.CheckProject(dir, store)
	default:
		// A store that matches neither kind: report what is missing for
		// each interpretation instead of guessing one.
		missing := store.Missing(dir, []string{wc.EntryAPIURL, wc.EntryProject, wc.EntryPackage}, wc.MissingOpts{})
		checkErr = &wc.InconsistentError{Path: dir, Missing: missing}
	}

	var inconsistent *wc.InconsistentError
	if errors.As(checkErr, &inconsistent) {
		fmt.Fprintln(out, "working copy is inconsistent")
		for _, name := range inconsistent.Missing {
			fmt.Fprintf(out, "  missing entry: %s\n", name)
		}
		if inconsistent.Reason != "" {
			fmt.Fprintf(out, "  %s\n", inconsistent.Reason)
		}
		return checkErr
	}
	if checkErr != nil {
		return checkErr
	}

	fmt.Fprintln(out, "working copy is consistent")
	return nil
}
