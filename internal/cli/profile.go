package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
)

type profileFlags struct {
	name      string
	age       string
	gender    string
	dtype     string
	startYear string
	targetMin string
	targetMax string
	notes     string
	insulins  []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "full name")
	fs.StringVar(&f.age, "age", "", "age in years")
	fs.StringVar(&f.gender, "gender", "", "gender")
	fs.StringVar(&f.dtype, "type", "", "diabetes type (1 or 2)")
	fs.StringVar(&f.startYear, "start-year", "", "year of diagnosis")
	fs.StringVar(&f.targetMin, "target-min", "", "lower bound of the target range in mg/dL")
	fs.StringVar(&f.targetMax, "target-max", "", "upper bound of the target range in mg/dL")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
	fs.StringArrayVar(&f.insulins, "insulin", nil, `insulin plan as "Name=Slot,Slot" (repeatable)`)
}

func newProfileCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the patient profile",
	}
	cmd.AddCommand(
		newProfileShowCmd(r),
		newProfileSetupCmd(r),
		newProfileEditCmd(r),
	)
	return cmd
}

func newProfileShowCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the patient profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd)
			if err != nil {
				return err
			}
			p, err := app.Profiles.Current(cmd.Context())
			if err != nil {
				return err
			}
			return renderProfile(cmd.OutOrStdout(), *p)
		},
	}
}

func newProfileSetupCmd(r *runner) *cobra.Command {
	var f profileFlags
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the patient profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := parsePlans(f.insulins)
			if err != nil {
				return err
			}
			app, err := r.open(cmd)
			if err != nil {
				return err
			}

			saved, err := app.Profiles.Setup(cmd.Context(), domain.PatientProfile{
				Name:         f.name,
				Age:          f.age,
				Gender:       f.gender,
				DiabetesType: f.dtype,
				StartYear:    f.startYear,
				TargetMin:    f.targetMin,
				TargetMax:    f.targetMax,
				Notes:        f.notes,
				Insulins:     plans,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return renderProfile(cmd.OutOrStdout(), saved)
		},
	}
	f.register(cmd)
	return cmd
}

func newProfileEditCmd(r *runner) *cobra.Command {
	var (
		f      profileFlags
		add    []string
		remove []string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change fields of the patient profile",
		Long: "Change fields of the patient profile. Only flags given on the command line are applied.\n" +
			"--insulin replaces the whole insulin list, --add-insulin merges slots into an existing or new insulin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, err := parsePlans(f.insulins)
			if err != nil {
				return err
			}
			additions, err := parsePlans(add)
			if err != nil {
				return err
			}
			app, err := r.open(cmd)
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			saved, err := app.Profiles.Edit(cmd.Context(), func(p *domain.PatientProfile) {
				set := func(flag string, dst *string, v string) {
					if changed(flag) {
						*dst = v
					}
				}
				set("name", &p.Name, f.name)
				set("age", &p.Age, f.age)
				set("gender", &p.Gender, f.gender)
				set("type", &p.DiabetesType, f.dtype)
				set("start-year", &p.StartYear, f.startYear)
				set("target-min", &p.TargetMin, f.targetMin)
				set("target-max", &p.TargetMax, f.targetMax)
				set("notes", &p.Notes, f.notes)

				if changed("insulin") {
					p.Insulins = replace
				}
				for _, name := range remove {
					p.Insulins = withoutInsulin(p.Insulins, name)
				}
				for _, a := range additions {
					p.Insulins = mergeInsulin(p.Insulins, a)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			return renderProfile(cmd.OutOrStdout(), saved)
		},
	}
	f.register(cmd)
	cmd.Flags().StringArrayVar(&add, "add-insulin", nil, `merge slots into an insulin, "Name=Slot,Slot" (repeatable)`)
	cmd.Flags().StringArrayVar(&remove, "remove-insulin", nil, "remove an insulin by name (repeatable)")
	return cmd
}

// mergeInsulin adds the slots of plan to the insulin of the same name, or
// appends plan when there is none
func mergeInsulin(plans []domain.InsulinPlan, plan domain.InsulinPlan) []domain.InsulinPlan {
	for i := range plans {
		if plans[i].Name == plan.Name {
			plans[i].MergeTimings(plan.Timings, "")
			return plans
		}
	}
	return append(plans, plan)
}

func withoutInsulin(plans []domain.InsulinPlan, name string) []domain.InsulinPlan {
	out := plans[:0]
	for _, p := range plans {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}
