// internal/cli/inspect.go
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wysaid/ccapkg"
	"github.com/wysaid/ccapkg/pkg/recipe"
)

var (
	inspectRecipe  string
	inspectVersion string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show recipe metadata and default options",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRecipe, "recipe", recipe.KindLocal, "recipe to inspect ("+strings.Join(recipe.Kinds, ", ")+")")
	inspectCmd.Flags().StringVar(&inspectVersion, "version", "", "recipe version")
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Inspection needs no cache or runner
	pkgr, err := ccapkg.NewPackager(config, nil, nil)
	if err != nil {
		return err
	}

	info, err := pkgr.Inspect(inspectRecipe, inspectVersion)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(info)
}
