// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ccapkg version %s\n", version)
		fmt.Fprintln(out, "Packaging for the ccap camera capture library")
		fmt.Fprintln(out, "https://github.com/wysaid/CameraCapture")
	},
}
