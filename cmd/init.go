package cmd

import (
	"github.com/spf13/cobra"

	"mermaid-live/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with an interactive wizard",
	Long:  `Runs an interactive wizard that picks a renderer backend, theme and export settings and writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
