package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents",
	}
	cmd.AddCommand(newAgentAddCmd())
	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentUpdateCmd())
	cmd.AddCommand(newAgentDeleteCmd())
	cmd.AddCommand(newAgentImportCmd())
	cmd.AddCommand(newAgentNoteCmd())
	return cmd
}

// agentFlags holds the editable agent fields shared by add and update
type agentFlags struct {
	name      string
	team      string
	daysOff   []int
	morning   bool
	afternoon bool
	night     bool
}

func (f *agentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Agent name")
	cmd.Flags().StringVar(&f.team, "team", "", "Team name")
	cmd.Flags().IntSliceVar(&f.daysOff, "days-off", nil, "Weekly days off, 0 (Sunday) to 6 (Saturday)")
	cmd.Flags().BoolVar(&f.morning, "morning", true, "Available for morning shifts")
	cmd.Flags().BoolVar(&f.afternoon, "afternoon", true, "Available for afternoon shifts")
	cmd.Flags().BoolVar(&f.night, "night", true, "Available for night shifts")
}

// apply copies the flags the user set onto a
func (f *agentFlags) apply(cmd *cobra.Command, a *models.Agent) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		a.Name = f.name
	}
	if flags.Changed("team") {
		a.Team = f.team
	}
	if flags.Changed("days-off") {
		a.DaysOff = make([]models.Weekday, 0, len(f.daysOff))
		for _, n := range f.daysOff {
			day, err := models.ParseWeekday(n)
			if err != nil {
				return err
			}
			a.DaysOff = append(a.DaysOff, day)
		}
	}
	if flags.Changed("morning") {
		a.Availability.Morning = f.morning
	}
	if flags.Changed("afternoon") {
		a.Availability.Afternoon = f.afternoon
	}
	if flags.Changed("night") {
		a.Availability.Night = f.night
	}
	return nil
}

func newAgentAddCmd() *cobra.Command {
	var f agentFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an agent (all shifts available unless turned off)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.name == "" {
				return errors.New("--name is required")
			}
			agent := models.Agent{
				Availability: models.Availability{Morning: f.morning, Afternoon: f.afternoon, Night: f.night},
			}
			if err := f.apply(cmd, &agent); err != nil {
				return err
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			added, err := st.AddAgent(cmd.Context(), agent)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added agent %q (%s)\n", added.Name, added.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAgentListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			t := st.Translator()
			agents := store.FilterAgents(st.Agents(), query)
			if len(agents) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t("agents.noAgents"))
				return nil
			}
			for _, a := range agents {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s %s (%s) %s: %s %s: %s\n",
					a.ID, a.Name, a.Team,
					t("agents.daysOff"), dayNames(t, a.DaysOff),
					t("agents.availability"), shiftNames(t, a.Availability))
				for _, date := range sortedNoteDates(a.Notes) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "    %s: %s\n", date, a.Notes[date])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "q", "", "Filter by name or team")
	return cmd
}

func newAgentUpdateCmd() *cobra.Command {
	var f agentFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			var agent *models.Agent
			for _, a := range st.Agents() {
				if a.ID == args[0] {
					agent = &a
					break
				}
			}
			if agent == nil {
				return fmt.Errorf("%w: %s", store.ErrAgentNotFound, args[0])
			}
			if err := f.apply(cmd, agent); err != nil {
				return err
			}

			updated, err := st.UpdateAgent(cmd.Context(), *agent)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated agent %q (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAgentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := st.DeleteAgent(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %s\n", args[0])
			return nil
		},
	}
}

func newAgentImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import agents from CSV (name,team,days_off,morning,afternoon,night)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			agents, err := store.ParseAgentsCSV(f)
			if err != nil {
				return err
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			added, err := st.ImportAgents(cmd.Context(), agents)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d agents\n", len(added))
			return nil
		},
	}
}

func newAgentNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage dated notes that take an agent off for a day",
	}
	cmd.AddCommand(newAgentNoteAddCmd())
	cmd.AddCommand(newAgentNoteRemoveCmd())
	return cmd
}

func newAgentNoteAddCmd() *cobra.Command {
	var date, text string
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Set the note for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := models.ParseDate(date)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("--text is required")
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			if _, err := st.AddAgentNote(cmd.Context(), args[0], d, text); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Noted %s for %s\n", d, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD")
	cmd.Flags().StringVar(&text, "text", "", "Note text")
	return cmd
}

func newAgentNoteRemoveCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove the note for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := models.ParseDate(date)
			if err != nil {
				return err
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			if _, err := st.RemoveAgentNote(cmd.Context(), args[0], d); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed note %s for %s\n", d, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD")
	return cmd
}

func dayNames(t func(string) string, days []models.Weekday) string {
	if len(days) == 0 {
		return "-"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = t(i18n.DayKey(d))
	}
	return strings.Join(names, ", ")
}

func shiftNames(t func(string) string, av models.Availability) string {
	var names []string
	for _, kind := range models.WorkingShifts {
		if av.Allows(kind) {
			names = append(names, t(i18n.ShiftKey(kind)))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func sortedNoteDates(notes map[models.Date]string) []models.Date {
	dates := make([]models.Date, 0, len(notes))
	for d := range notes {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}
