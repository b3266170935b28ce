// internal/cli/archive.go
package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	archiveOutput    string
	archivePackageID string
)

var archiveCmd = &cobra.Command{
	Use:   "archive [reference]",
	Short: "Pack a cached package as .tar.xz",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

func init() {
	archiveCmd.Flags().StringVarP(&archiveOutput, "output", "o", ".", "destination folder")
	archiveCmd.Flags().StringVar(&archivePackageID, "package-id", "", "package to archive (default is the newest)")
}

func runArchive(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	path, err := pkgr.Archive(args[0], archivePackageID, archiveOutput)
	if err != nil {
		return err
	}

	size := ""
	if st, err := os.Stat(path); err == nil {
		size = " (" + humanize.Bytes(uint64(st.Size())) + ")"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s\n", colOK.Sprint("✓"), path, size)
	return nil
}
