// internal/cli/root.go
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/wysaid/ccapkg"
	"github.com/wysaid/ccapkg/pkg/core"
	"github.com/wysaid/ccapkg/pkg/runner"
)

const version = "0.1.0"

var (
	cfgFile   string
	cachePath string
	debug     bool
	config    *core.Config
)

var (
	colOK    = color.Green
	colFail  = color.Red
	colArrow = color.Cyan
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ccapkg",
	Short: "Packaging tool for the ccap camera capture library",
	Long: `ccapkg - packaging for ccap

Builds the ccap library from a local checkout or a released source archive,
stores the result in a local package cache and verifies it by building and
running a small consumer program.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode returns the process exit status for an Execute error. A failed
// external command exits with that command's status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/ccapkg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "package cache folder")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if cachePath != "" {
		config.CachePath = cachePath
	}
	if debug {
		config.Debug = true
	}
}

func newPackager() (*ccapkg.Packager, error) {
	return ccapkg.NewPackager(config, nil, core.NewLogger(os.Stderr, config.Debug))
}
