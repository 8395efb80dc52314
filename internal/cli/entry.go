package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
	"github.com/vladimiradmaev/diabetes-diary/internal/services"
)

const insulinFlagUsage = `insulin dose as "Type:Amount:Time" (repeatable)`

func newEntryCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries"},
		Short:   "Record and manage diary entries",
	}
	cmd.AddCommand(
		newEntryAddCmd(r),
		newEntryUpdateCmd(r),
		newEntryDeleteCmd(r),
		newEntryListCmd(r),
	)
	return cmd
}

func newEntryAddCmd(r *runner) *cobra.Command {
	var (
		bloodSugar string
		insulin    []string
		notes      string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a blood sugar reading with optional insulin doses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doses, err := parseDoses(insulin)
			if err != nil {
				return err
			}
			app, err := r.open(cmd)
			if err != nil {
				return err
			}

			entry, err := app.Entries.Log(cmd.Context(), services.EntryForm{
				BloodSugar: bloodSugar,
				Insulin:    doses,
				Notes:      notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry saved successfully! (%s)\n", entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&bloodSugar, "blood-sugar", "", "blood sugar reading in mg/dL")
	cmd.Flags().StringArrayVar(&insulin, "insulin", nil, insulinFlagUsage)
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newEntryUpdateCmd(r *runner) *cobra.Command {
	var (
		bloodSugar   string
		insulin      []string
		clearInsulin bool
		notes        string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.EntryPatch
			flags := cmd.Flags()
			if flags.Changed("blood-sugar") {
				patch.BloodSugar = &bloodSugar
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			switch {
			case clearInsulin:
				doses := []domain.InsulinDose{}
				patch.InsulinEntries = &doses
			case flags.Changed("insulin"):
				doses, err := parseDoses(insulin)
				if err != nil {
					return err
				}
				patch.InsulinEntries = &doses
			}
			if patch.IsEmpty() {
				return apperrors.NewValidationError("Nothing to update.")
			}

			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			found, err := app.Entries.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if !found {
				return apperrors.NewEntryNotFoundError(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&bloodSugar, "blood-sugar", "", "blood sugar reading in mg/dL")
	cmd.Flags().StringArrayVar(&insulin, "insulin", nil, insulinFlagUsage+", replaces all doses")
	cmd.Flags().BoolVar(&clearInsulin, "clear-insulin", false, "remove all insulin doses")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.MarkFlagsMutuallyExclusive("insulin", "clear-insulin")
	return cmd
}

func newEntryDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			found, err := app.Entries.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return apperrors.NewEntryNotFoundError(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted.")
			return nil
		},
	}
}

func newEntryListCmd(r *runner) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			entries, err := app.Entries.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			profile, err := app.Profiles.Current(cmd.Context())
			if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
				return err
			}
			return renderEntries(cmd.OutOrStdout(), entries, report.BandFromProfile(profile), app.Location)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries, -1 for all")
	return cmd
}
