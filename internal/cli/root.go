// Package cli implements the obc command-line interface.
package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildmesh/obc/internal/checkout"
	"github.com/buildmesh/obc/internal/logging"
	"github.com/buildmesh/obc/internal/paths"
	"github.com/buildmesh/obc/pkg/wc"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	logLevel  string
	logFormat string
}

var (
	flags rootFlags

	// cfg is the loaded configuration, set by PersistentPreRunE.
	cfg *viper.Viper

	// log is the process logger, set by PersistentPreRunE.
	log *slog.Logger
)

// NewRootCmd creates the top-level "obc" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "obc",
		Short:   "obc manages local checkouts of build-service projects and packages",
		Long:    "obc tracks local working copies of projects and packages against a\nbuild service, keeping checkout metadata in a per-directory store.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return err
			}
			if cfg, err = loadConfig(configDir); err != nil {
				return err
			}

			level := flags.logLevel
			if level == "" {
				level = cfg.GetString(cfgKeyLogLevel)
			}
			format := flags.logFormat
			if format == "" {
				format = cfg.GetString(cfgKeyLogFormat)
			}
			log, err = logging.New(logging.Config{Level: level, Format: format})
			return err
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newPackagesCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRmCmd())
	root.AddCommand(newCheckCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode classifies an error: caller mistakes are user errors, the
// rest are system errors.
func exitCode(err error) int {
	userKinds := []error{
		wc.ErrNotWorkingCopy,
		wc.ErrEntryNotFound,
		wc.ErrAlreadyWorkingCopy,
		wc.ErrInvalidExternalStore,
		wc.ErrBadFormatVersion,
		fs.ErrPermission,
		checkout.ErrPackageTracked,
		checkout.ErrPackageNotTracked,
		checkout.ErrFileTracked,
		checkout.ErrFileNotTracked,
		checkout.ErrNoSuchFile,
	}
	for _, kind := range userKinds {
		if errors.Is(err, kind) {
			return exitUserError
		}
	}
	var inconsistent *wc.InconsistentError
	if errors.As(err, &inconsistent) {
		return exitUserError
	}
	return exitSysError
}

// targetDir returns the working-copy directory addressed by an optional
// positional argument, defaulting to the current directory.
func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return filepath.Abs(dir)
}
