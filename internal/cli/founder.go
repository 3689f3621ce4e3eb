package cli

import (
	"github.com/spf13/cobra"
)

func newFounderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "founder",
		Short: "Founder code commands",
	}

	cmd.AddCommand(newFounderAssignCmd())
	cmd.AddCommand(newFounderGetCmd())

	return cmd
}

func newFounderAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign",
		Short: "Request a founder code for this install",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AssignResult

			if err := client.Post("/api/v1/founder/assign", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newFounderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the persisted founder assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *FounderAssignment

			if err := client.Get("/api/v1/founder", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result == nil {
				out.PrintMessage("No founder code assigned")
				return nil
			}
			out.Print(*result)
			return nil
		},
	}
}
