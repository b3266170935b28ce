// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wysaid/ccapkg"
	"github.com/wysaid/ccapkg/pkg/lifecycle"
)

var (
	installGenerators []string
	installOutput     string
	installSettings   []string
	installProfile    string
)

var installCmd = &cobra.Command{
	Use:   "install [reference]",
	Short: "Generate consumer files for a cached package",
	Long: `Write build-system files that let a project consume a cached package.

Examples:
  ccapkg install ccap/1.3.2 --output-folder build
  ccapkg install ccap/1.3.2 -g PkgConfigDeps --output-folder deps`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringArrayVarP(&installGenerators, "generator", "g", nil, "generator to run, repeatable ("+strings.Join(lifecycle.Generators, ", ")+")")
	installCmd.Flags().StringVar(&installOutput, "output-folder", ".", "folder for generated files")
	installCmd.Flags().StringArrayVarP(&installSettings, "setting", "s", nil, "setting override key=value")
	installCmd.Flags().StringVar(&installProfile, "profile", "", "settings profile from the config file")
}

func runInstall(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	written, err := pkgr.Install(context.Background(), args[0], ccapkg.InstallRequest{
		Target:       ccapkg.Target{Profile: installProfile, Settings: installSettings},
		Generators:   installGenerators,
		OutputFolder: installOutput,
	})
	if err != nil {
		return err
	}

	for _, f := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", colArrow.Sprint("->"), f)
	}
	return nil
}
