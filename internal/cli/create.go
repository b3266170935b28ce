// internal/cli/create.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wysaid/ccapkg"
	"github.com/wysaid/ccapkg/pkg/recipe"
)

var (
	createRecipe     string
	createVersion    string
	createConandata  string
	createOptions    []string
	createSettings   []string
	createProfile    string
	createTestFolder string
	createNoTest     bool
)

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Build, package and verify ccap",
	Long: `Build ccap, store the package in the cache and run the verification
program against it.

The local recipe builds the checkout at path. The center recipe downloads the
release listed in path/conandata.yml for --version.

Examples:
  ccapkg create .
  ccapkg create . -o shared=True -s build_type=Debug
  ccapkg create recipes/ccap/all --recipe center --version 1.3.2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createRecipe, "recipe", recipe.KindLocal, "recipe to use ("+strings.Join(recipe.Kinds, ", ")+")")
	createCmd.Flags().StringVar(&createVersion, "version", "", "version to package")
	createCmd.Flags().StringVar(&createConandata, "conandata", "", "conandata.yml path (default is path/conandata.yml)")
	createCmd.Flags().StringArrayVarP(&createOptions, "option", "o", nil, "option override name=value")
	createCmd.Flags().StringArrayVarP(&createSettings, "setting", "s", nil, "setting override key=value")
	createCmd.Flags().StringVar(&createProfile, "profile", "", "settings profile from the config file")
	createCmd.Flags().StringVar(&createTestFolder, "test-folder", "", "consumer project used for verification")
	createCmd.Flags().BoolVar(&createNoTest, "no-test", false, "skip verification")
}

func runCreate(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	entry, err := pkgr.Create(context.Background(), ccapkg.CreateRequest{
		Target:     ccapkg.Target{Profile: createProfile, Settings: createSettings},
		Recipe:     createRecipe,
		Version:    createVersion,
		Path:       path,
		Conandata:  createConandata,
		Options:    createOptions,
		TestFolder: createTestFolder,
		NoTest:     createNoTest,
	})
	if entry != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s:%s\n", colOK.Sprint("✓"), entry.Reference, entry.PackageID)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", colFail.Sprint("✗"), err)
		return err
	}
	if !createNoTest {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Verified %s\n", colOK.Sprint("✓"), entry.Reference)
	}
	return nil
}
