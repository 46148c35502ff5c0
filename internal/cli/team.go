package cli

import (
	"errors"
	"fmt"

	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(newTeamAddCmd())
	cmd.AddCommand(newTeamListCmd())
	cmd.AddCommand(newTeamDeleteCmd())
	cmd.AddCommand(newTeamRequireCmd())
	return cmd
}

func newTeamAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a team with no required headcount",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			team, err := st.AddTeam(cmd.Context(), models.Team{Name: name})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created team %q (%s)\n", team.Name, team.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Team name")
	return cmd
}

func newTeamListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams and their required agents per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			t := st.Translator()
			teams := store.FilterTeams(st.Teams(), query)
			if len(teams) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t("teams.noTeams"))
				return nil
			}
			out := cmd.OutOrStdout()
			for _, team := range teams {
				_, _ = fmt.Fprintf(out, "- %s %s\n", team.ID, team.Name)
				for _, day := range models.Weekdays {
					counts := team.RequiredAgents[day]
					_, _ = fmt.Fprintf(out, "    %-10s %s=%d %s=%d %s=%d\n", t(i18n.DayKey(day)),
						t("teams.morning"), counts.Morning,
						t("teams.afternoon"), counts.Afternoon,
						t("teams.night"), counts.Night)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "q", "", "Filter by name")
	return cmd
}

func newTeamDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team (agents keep their team name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := st.DeleteTeam(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted team %s\n", args[0])
			return nil
		},
	}
}

func newTeamRequireCmd() *cobra.Command {
	var day, morning, afternoon, night int
	cmd := &cobra.Command{
		Use:   "require <id>",
		Short: "Set the required agents per shift for one weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekday, err := models.ParseWeekday(day)
			if err != nil {
				return err
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			var team *models.Team
			for _, tm := range st.Teams() {
				if tm.ID == args[0] {
					team = &tm
					break
				}
			}
			if team == nil {
				return fmt.Errorf("%w: %s", store.ErrTeamNotFound, args[0])
			}
			if team.RequiredAgents == nil {
				team.RequiredAgents = map[models.Weekday]models.ShiftCounts{}
			}
			team.RequiredAgents[weekday] = models.ShiftCounts{Morning: morning, Afternoon: afternoon, Night: night}

			if _, err := st.UpdateTeam(cmd.Context(), *team); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s requirements for %q\n", weekday.Key(), team.Name)
			return nil
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "Weekday, 0 (Sunday) to 6 (Saturday)")
	cmd.Flags().IntVar(&morning, "morning", 0, "Required agents on the morning shift")
	cmd.Flags().IntVar(&afternoon, "afternoon", 0, "Required agents on the afternoon shift")
	cmd.Flags().IntVar(&night, "night", 0, "Required agents on the night shift")
	return cmd
}
