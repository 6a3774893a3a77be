package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/pkg/wc"
)

type initFlagSet struct {
	apiurl  string
	project string
	pkg     string
}

var initFlags initFlagSet

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a working copy",
		Long: "Initialize dir (default: current directory) as a project working copy,\n" +
			"or as a package working copy when --package is given. The directory is\n" +
			"created if it does not exist.",
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().StringVar(&initFlags.apiurl, "apiurl", "", "build service API endpoint (default: apiurl from config)")
	cmd.Flags().StringVar(&initFlags.project, "project", "", "project name")
	cmd.Flags().StringVar(&initFlags.pkg, "package", "", "package name (makes this a package working copy)")
	cmd.MarkFlagRequired("project")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}
	apiurl := initFlags.apiurl
	if apiurl == "" {
		apiurl = cfg.GetString(cfgKeyAPIURL)
	}
	if apiurl == "" {
		return fmt.Errorf("no API endpoint: pass --apiurl or set apiurl in config.yaml")
	}

	store := wc.DefaultStore()
	if initFlags.pkg != "" {
		pkg, err := checkout.CreatePackage(dir, apiurl, initFlags.project, initFlags.pkg, store, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized package working copy for %s/%s\n", pkg.Project, pkg.Name)
		return nil
	}

	prj, err := checkout.CreateProject(dir, apiurl, initFlags.project, store, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized project working copy for %s\n", prj.Name)
	return nil
}
