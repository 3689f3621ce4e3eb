package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "lcattr",
		Short: "CLI tool for the LifeCompass attribution agent",
		Long: `lcattr is a CLI tool for interacting with the local attribution agent.

It supports all agent operations: feeding inbound links, inspecting and
clearing the pending referral, reporting upgrades, founder code assignment,
and reading referral notifications.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.AgentURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.AgentURL, "agent", cfg.AgentURL, "Agent URL (env: LCATTR_AGENT)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newReferralCmd())
	rootCmd.AddCommand(newFounderCmd())
	rootCmd.AddCommand(newNotificationsCmd())
	rootCmd.AddCommand(newIdentityCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
