// internal/cli/info.go
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [reference]",
	Short: "Show cached packages of a reference",
	Long:  `Display settings, options and link information of every cached package of a reference.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	pkgr, err := newPackager()
	if err != nil {
		return err
	}

	entries, err := pkgr.Info(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Reference:  %s\n", e.Reference)
		fmt.Fprintf(out, "Package ID: %s\n", e.PackageID)
		fmt.Fprintf(out, "Revision:   %s\n", e.Revision)
		fmt.Fprintf(out, "Folder:     %s\n", e.Folder)
		fmt.Fprintf(out, "Settings:   %s\n", joinSorted(e.Settings))
		fmt.Fprintf(out, "Options:    %s\n", joinSorted(e.Options))
		fmt.Fprintf(out, "Libs:       %s\n", strings.Join(e.CppInfo.Libs, " "))
		if len(e.CppInfo.SystemLibs) > 0 {
			fmt.Fprintf(out, "SystemLibs: %s\n", strings.Join(e.CppInfo.SystemLibs, " "))
		}
		if len(e.CppInfo.Frameworks) > 0 {
			fmt.Fprintf(out, "Frameworks: %s\n", strings.Join(e.CppInfo.Frameworks, " "))
		}
		if len(e.CppInfo.Properties) > 0 {
			fmt.Fprintln(out, "Properties:")
		}
		for _, key := range e.CppInfo.PropertyKeys() {
			fmt.Fprintf(out, "  %s: %s\n", key, e.CppInfo.Property(key))
		}
	}
	return nil
}

func joinSorted(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
