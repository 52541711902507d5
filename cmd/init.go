package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize writetutor configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the provider, quality tier and data directory, and writes the config file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
