// internal/cli/remove.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [reference]",
	Short: "Remove every cached package of a reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkgr, err := newPackager()
		if err != nil {
			return err
		}
		if err := pkgr.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", colOK.Sprint("✓"), args[0])
		return nil
	},
}
