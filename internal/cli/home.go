package cli

import (
	"github.com/spf13/cobra"
)

func newHomeCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Greeting, today's summary and recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			home, err := app.Dashboard.Home(cmd.Context(), app.Now())
			if err != nil {
				return err
			}
			return renderHome(cmd.OutOrStdout(), home, app.Location)
		},
	}
}
