package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

func newReportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly blood sugar and insulin reports",
	}
	cmd.AddCommand(
		newReportMonthsCmd(r),
		newReportMonthCmd(r),
	)
	return cmd
}

func newReportMonthsCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months that have entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			months, err := app.Reports.Months(cmd.Context())
			if err != nil {
				return err
			}
			if len(months) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries yet.")
				return nil
			}
			t := newTable(cmd.OutOrStdout())
			for _, m := range months {
				row(t, m.Key(), m.String())
			}
			return t.Flush()
		},
	}
}

func newReportMonthCmd(r *runner) *cobra.Command {
	var (
		month string
		xlsx  string
	)
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the report of one month, the most recent by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected *report.Month
			if month != "" {
				m, err := report.ParseMonth(month)
				if err != nil {
					return apperrors.NewValidationError(fmt.Sprintf("--month %q must look like 2025-07.", month))
				}
				selected = &m
			}

			app, err := r.open(cmd)
			if err != nil {
				return err
			}

			if xlsx == "" {
				rep, err := app.Reports.Monthly(cmd.Context(), selected)
				if err != nil {
					return err
				}
				return renderReport(cmd.OutOrStdout(), rep)
			}

			f, err := os.Create(xlsx)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", xlsx, err)
			}
			rep, err := app.Reports.Export(cmd.Context(), f, selected)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report for %s written to %s\n", rep.Month, xlsx)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "write the report to this spreadsheet file instead of printing it")
	return cmd
}
