// internal/cli/profile.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wysaid/ccapkg/pkg/core"
	"github.com/wysaid/ccapkg/pkg/platform"
)

var (
	profileName  string
	profileForce bool
	showProfile  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage settings profiles",
}

var profileDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Save the settings of this machine as a profile",
	Long: `Detect os, arch and compiler of this machine and store them as a named
profile in the config file.

Examples:
  ccapkg profile detect
  ccapkg profile detect --name gcc13 --force`,
	Args: cobra.NoArgs,
	RunE: runProfileDetect,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Profile(showProfile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.String())
		return nil
	},
}

func init() {
	profileDetectCmd.Flags().StringVar(&profileName, "name", "default", "profile name")
	profileDetectCmd.Flags().BoolVar(&profileForce, "force", false, "overwrite an existing profile")
	profileShowCmd.Flags().StringVar(&showProfile, "name", "", "profile name (default is the default profile)")

	profileCmd.AddCommand(profileDetectCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileDetect(cmd *cobra.Command, args []string) error {
	if _, exists := config.Profiles[profileName]; exists && !profileForce {
		return fmt.Errorf("profile %q already exists, use --force to overwrite", profileName)
	}

	s, err := platform.Detect()
	if err != nil {
		return err
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]platform.Settings)
	}
	config.Profiles[profileName] = s
	if err := core.SaveConfig(config, cfgFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Profile %s: %s\n", colOK.Sprint("✓"), profileName, s.String())
	return nil
}
