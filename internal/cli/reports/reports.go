package reports

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dashboard(ctx *cli.Context, opts metrics.Options) (metrics.Dashboard, error) {
	if err := ctx.Load(); err != nil {
		return metrics.Dashboard{}, err
	}
	return ctx.Controller.Dashboard(opts), nil
}

type TodayCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	d, err := dashboard(ctx, ctx.Config.MetricsOptions())
	if err != nil {
		return err
	}
	st := ctx.Controller.State()

	done := make(map[string]bool)
	for _, l := range st.Logs {
		if l.Date == d.Today && l.Completed {
			done[l.HabitID] = true
		}
	}

	if c.JSON {
		type habitStatus struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Completed bool   `json:"completed"`
		}
		out := struct {
			Date     string               `json:"date"`
			Progress models.DailyProgress `json:"progress"`
			Streak   int                  `json:"streak"`
			Habits   []habitStatus        `json:"habits"`
		}{Date: d.Today, Progress: d.Progress, Streak: d.Streak, Habits: []habitStatus{}}
		for _, h := range st.Habits {
			if h.IsActive() {
				out.Habits = append(out.Habits, habitStatus{ID: h.ID, Name: h.Name, Completed: done[h.ID]})
			}
		}
		return printJSON(out)
	}

	fmt.Printf("Today: %s\n", d.Today)
	fmt.Printf("%s %d/%d (%.0f%%)\n\n", ProgressBar(d.Progress.Percent, 20), d.Progress.Completions, d.Progress.Target, d.Progress.Percent)

	active := 0
	for _, h := range st.Habits {
		if !h.IsActive() {
			continue
		}
		active++
		mark := "[ ]"
		if done[h.ID] {
			mark = "[x]"
		}
		fmt.Printf("  %s %s\n", mark, h.Name)
	}
	if active == 0 {
		fmt.Println("  No active habits. Add one with 'ritual habit add'.")
	}

	fmt.Printf("\nStreak: %d day(s)\n", d.Streak)
	return nil
}

type StatsCmd struct {
	JSON bool `help:"Print the full dashboard as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	d, err := dashboard(ctx, ctx.Config.MetricsOptions())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(d)
	}

	fmt.Printf("Completion rate (30d): %d%%\n", d.CompletionRate)
	fmt.Printf("Current streak:        %d day(s)\n", d.Streak)
	fmt.Printf("Today:                 %d/%d\n", d.Progress.Completions, d.Progress.Target)

	if len(d.Integrity) > 0 {
		fmt.Println("\nIntegrity matrix:")
		for _, row := range d.Integrity {
			fmt.Printf("  %-24s %3d%%  %s\n", row.Habit.Name, row.Rate30d, Dots(row.Last7))
		}
	}
	return nil
}

type InsightsCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	d, err := dashboard(ctx, ctx.Config.MetricsOptions())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(d.Insights)
	}

	if len(d.Insights) == 0 {
		fmt.Println("No insights yet. Add a habit to get started.")
		return nil
	}
	for _, in := range d.Insights {
		fmt.Printf("%s %s: %s\n", insightIcon(in.Type), in.Label, in.Value)
	}
	return nil
}

func insightIcon(t models.InsightType) string {
	switch t {
	case models.InsightPositive:
		return "✓"
	case models.InsightWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

type AchievementsCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	d, err := dashboard(ctx, ctx.Config.MetricsOptions())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(d.Achievements)
	}

	unlocked := 0
	for _, a := range d.Achievements {
		mark := "🔒"
		if a.Unlocked {
			mark = "🏆"
			unlocked++
		}
		fmt.Printf("%s %-18s %s (%s)\n", mark, a.Title, a.Description, a.Requirement)
	}
	fmt.Printf("\n%d/%d unlocked\n", unlocked, len(d.Achievements))
	return nil
}

type CalendarCmd struct {
	Days int  `help:"Number of days to show (default from config)."`
	JSON bool `help:"Print as JSON."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	opts := ctx.Config.MetricsOptions()
	if c.Days > 0 {
		opts.CalendarDays = c.Days
	}

	d, err := dashboard(ctx, opts)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(d.Calendar)
	}

	fmt.Print(RenderCalendar(d.Calendar))
	return nil
}

type TrendCmd struct {
	Timeframe string `short:"t" help:"W, M or Y (default from config)."`
	JSON      bool   `help:"Print as JSON."`
}

func (c *TrendCmd) Run(ctx *cli.Context) error {
	opts := ctx.Config.MetricsOptions()
	if c.Timeframe != "" {
		tf, err := metrics.ParseTimeframe(c.Timeframe)
		if err != nil {
			return err
		}
		opts.Timeframe = tf
	}

	d, err := dashboard(ctx, opts)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(d.Trend)
	}

	fmt.Printf("%s trend (%s to %s)\n", opts.Timeframe.Label(), d.Trend[0].Date, d.Trend[len(d.Trend)-1].Date)
	fmt.Println(Sparkline(d.Trend))

	sum := 0
	for _, p := range d.Trend {
		sum += p.Rate
	}
	fmt.Printf("Average: %d%%\n", sum/len(d.Trend))
	return nil
}

// dateLabel is used by RenderCalendar for the first cell of each row.
func dateLabel(date string) string {
	t, err := utils.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02")
}
