package cli

import (
	"github.com/spf13/cobra"
)

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <url>",
		Short: "Feed an inbound link to the agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"url": args[0]}

			var result LinkResult

			if err := client.Post("/api/v1/links", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newReferralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Referral lifecycle commands",
	}

	cmd.AddCommand(newReferralPendingCmd())
	cmd.AddCommand(newReferralStoreCmd())
	cmd.AddCommand(newReferralClearCmd())
	cmd.AddCommand(newReferralConvertCmd())
	cmd.AddCommand(newReferralCompletedCmd())
	cmd.AddCommand(newReferralCodeCmd())
	cmd.AddCommand(newReferralShareCmd())

	return cmd
}

func newReferralPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show the pending referral",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *PendingReferral

			if err := client.Get("/api/v1/referral/pending", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result == nil {
				out.PrintMessage("No pending referral")
				return nil
			}
			out.Print(*result)
			return nil
		},
	}
}

func newReferralStoreCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "store <code>",
		Short: "Store a referral code as pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"code":   args[0],
				"source": source,
			}

			if err := client.Post("/api/v1/referral/pending", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Pending referral stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "clipboard", "Referral source (clipboard, deeplink, legacy-query)")

	return cmd
}

func newReferralClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the pending referral",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/referral/pending"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Pending referral cleared")
			return nil
		},
	}
}

func newReferralConvertCmd() *cobra.Command {
	var subscription string

	cmd := &cobra.Command{
		Use:   "convert <user-id>",
		Short: "Report a paid upgrade and attribute any pending referral",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"referred_user_id":  args[0],
				"subscription_type": subscription,
			}

			var result *CompletedReferral

			if err := client.Post("/api/v1/referral/convert", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result == nil {
				out.PrintMessage("No referral attributed")
				return nil
			}
			out.Print(*result)
			return nil
		},
	}

	cmd.Flags().StringVar(&subscription, "subscription", "pro", "Subscription type purchased")

	return cmd
}

func newReferralCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "List completed referrals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []CompletedReferral

			if err := client.Get("/api/v1/referral/completed", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newReferralCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code <code>",
		Short: "Save a manually entered referral code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"code": args[0]}

			if err := client.Post("/api/v1/referral/code", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Referral code saved")
			return nil
		},
	}
}

func newReferralShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Report that the user shared their referral link",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/referral/share", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Share reported")
			return nil
		},
	}
}
