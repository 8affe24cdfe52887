package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget which questions you have seen (history is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.svc.Reset(cmd.Context(), rt.user()); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seen questions cleared for %s. All %d questions are new again.\n",
			rt.user(), rt.svc.Catalog().Len())
		return nil
	},
}
