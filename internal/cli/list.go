// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached packages",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	entries, err := pkgr.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No packages in cache")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "%s %s:%s  %s\n", colArrow.Sprint("->"), e.Reference, e.PackageID, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
