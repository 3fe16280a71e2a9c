// Package app provides the entry point for the flowise command-line
// application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brygal1/flowise/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "flowise",
	DisableAutoGenTag: true,
	Short:             "flowise connects mailbox accounts through OAuth",
	Long: `flowise is the OAuth connection service for mailbox providers.
It starts authorization-code flows against Gmail and Outlook, handles the
provider callbacks, and keeps the resulting tokens in the credential store.`,
	// Flags are parsed after main's Initialize call; reapply so --debug
	// takes effect.
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the flowise CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Fatalf("Failed to bind debug flag: %v", err)
	}

	viper.SetEnvPrefix("FLOWISE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
