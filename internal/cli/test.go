// internal/cli/test.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wysaid/ccapkg"
)

var (
	testSettings []string
	testProfile  string
	testFolder   string
)

var testCmd = &cobra.Command{
	Use:   "test [reference]",
	Short: "Verify a cached package",
	Long: `Build the consumer program against a cached package and run it. The run is
skipped, without failing, when the package targets another machine.

Examples:
  ccapkg test ccap/1.3.2
  ccapkg test ccap/1.3.2 --test-folder ./my_consumer`,
	Args: cobra.ExactArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringArrayVarP(&testSettings, "setting", "s", nil, "setting override key=value")
	testCmd.Flags().StringVar(&testProfile, "profile", "", "settings profile from the config file")
	testCmd.Flags().StringVar(&testFolder, "test-folder", "", "consumer project used for verification")
}

func runTest(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	err = pkgr.Test(context.Background(), args[0], ccapkg.TestRequest{
		Target: ccapkg.Target{Profile: testProfile, Settings: testSettings},
		Folder: testFolder,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", colFail.Sprint("✗"), err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Verified %s\n", colOK.Sprint("✓"), args[0])
	return nil
}
