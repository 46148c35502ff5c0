package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arnavshah/w2w/pkg/export"
	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/scheduler"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, show and export the weekly schedule",
	}
	cmd.AddCommand(newScheduleGenerateCmd())
	cmd.AddCommand(newScheduleShowCmd())
	cmd.AddCommand(newScheduleExportCmd())
	cmd.AddCommand(newScheduleCoverageCmd())
	return cmd
}

func newScheduleGenerateCmd() *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the week containing --start (default: today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := models.DateOf(time.Now())
			if start != "" {
				d, err := models.ParseDate(start)
				if err != nil {
					return err
				}
				date = d
			}

			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			t := st.Translator()
			schedule, err := st.GenerateSchedule(cmd.Context(), date)
			if err != nil {
				if errors.Is(err, scheduler.ErrMissingPrerequisites) {
					return fmt.Errorf("%s: %w", t("schedule.generate"), err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t("schedule.weekStarting"), date.WeekStart())
			printSchedule(cmd.OutOrStdout(), schedule, t)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Any date in the week, as YYYY-MM-DD")
	return cmd
}

func newScheduleShowCmd() *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the last generated schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			t := st.Translator()
			schedule := store.FilterSchedule(st.Schedule(), team)
			if len(schedule) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t("schedule.noSchedule"))
				return nil
			}
			printSchedule(cmd.OutOrStdout(), schedule, t)
			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "all", "Only show agents of this team")
	return cmd
}

func newScheduleExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the schedule as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			data, name, err := export.Workbook(st.Schedule(), st.Translator())
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output path (default: w2w_schedule_<week start>.xlsx)")
	return cmd
}

func newScheduleCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "List team shifts scheduled below their required headcount",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			t := st.Translator()
			state := st.State()
			gaps := scheduler.NewScheduler(state.Agents, state.Teams).Coverage(state.Schedule)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %d\n", t("schedule.coverage"), len(gaps))
			for _, g := range gaps {
				_, _ = fmt.Fprintf(out, "- %s %s %s %s %d/%d\n", g.Team, g.Date, t(i18n.DayKey(g.Weekday)),
					t(i18n.ShiftKey(g.Shift)), g.Scheduled, g.Required)
			}
			_, _ = fmt.Fprintf(out, "fairness: %.2f\n", scheduler.CalculateFairnessScore(state.Schedule))
			return nil
		},
	}
}

// printSchedule writes the same rows as the export, one agent per line
func printSchedule(w io.Writer, schedule []models.ScheduleEntry, t func(string) string) {
	rows, err := export.Table(schedule, t)
	if err != nil {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
