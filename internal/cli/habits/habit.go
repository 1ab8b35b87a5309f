package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/errors"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Toggle a habit's completion for a day."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive or unarchive a habit."`
	Remove  HabitRemoveCmd  `cmd:"" help:"Remove a habit and its history."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Category  string `help:"Category, e.g. Health or Work." required:""`
	Frequency string `help:"daily, weekly or custom." default:"daily"`
	Per       int    `help:"Times per week (weekly) or interval in days (custom)."`
	Priority  string `help:"low, medium or high." default:"medium"`
	Notes     string `help:"Free-form notes."`
	Color     string `help:"Palette name or #RRGGBB."`
}

func (c *HabitAddCmd) Draft() (models.HabitDraft, error) {
	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return models.HabitDraft{}, err
	}
	prio, err := models.ParsePriority(c.Priority)
	if err != nil {
		return models.HabitDraft{}, err
	}
	color, err := models.ResolveColor(c.Color)
	if err != nil {
		return models.HabitDraft{}, err
	}

	draft := models.HabitDraft{
		Name:      c.Name,
		Category:  c.Category,
		Frequency: freq,
		Priority:  prio,
		Notes:     c.Notes,
		Color:     color,
	}
	if c.Per != 0 {
		per := c.Per
		draft.FrequencyValue = &per
	}
	return draft, nil
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	draft, err := c.Draft()
	if err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Controller.AddHabit(draft)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added habit: %s (%s, %s)\n", h.Name, h.Category, FormatFrequency(h))
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	st := ctx.Controller.State()
	today := ctx.Controller.Today()
	todayStr := utils.FormatDate(today)

	done := make(map[string]bool)
	for _, l := range st.Logs {
		if l.Date == todayStr && l.Completed {
			done[l.HabitID] = true
		}
	}

	shown := 0
	for _, h := range st.Habits {
		if h.IsArchived && !c.Archived {
			continue
		}
		mark := "[ ]"
		if done[h.ID] {
			mark = "[x]"
		}
		status := ""
		if h.IsArchived {
			status = " [ARCHIVED]"
		}
		rate := metrics.HabitCompletionRate(h.ID, st.Logs, today)
		fmt.Printf("%s %-24s %-10s %-14s %-6s %3d%%%s\n",
			mark, h.Name, h.Category, FormatFrequency(h), h.Priority, rate, status)
		shown++
	}

	if shown == 0 {
		fmt.Println("No habits found.")
	}
	return nil
}

type HabitToggleCmd struct {
	Name string `arg:"" help:"Habit name or id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Controller.FindHabit(c.Name)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = utils.FormatDate(ctx.Controller.Today())
	}

	completed, err := ctx.Controller.ToggleLog(h.ID, day)
	if err != nil {
		return err
	}

	if completed {
		fmt.Printf("✓ %s marked done for %s\n", h.Name, day)
	} else {
		fmt.Printf("○ %s unmarked for %s\n", h.Name, day)
	}
	return nil
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name or id."`
	Unarchive bool   `help:"Restore an archived habit to the active set."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Controller.FindHabit(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Controller.SetArchived(h.ID, !c.Unarchive); err != nil {
		return err
	}

	if c.Unarchive {
		fmt.Printf("✓ Unarchived habit: %s\n", h.Name)
	} else {
		fmt.Printf("✓ Archived habit: %s\n", h.Name)
	}
	return nil
}

type HabitRemoveCmd struct {
	Name string `arg:"" help:"Habit name or id."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitRemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Controller.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Remove %q and its entire history?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrAborted
		}
	}

	if err := ctx.Controller.RemoveHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Removed habit: %s\n", h.Name)
	return nil
}

// FormatFrequency renders a habit's cadence for listings.
func FormatFrequency(h models.Habit) string {
	switch h.Frequency {
	case models.FrequencyWeekly:
		if h.FrequencyValue != nil {
			return fmt.Sprintf("weekly (%dx)", *h.FrequencyValue)
		}
		return "weekly"
	case models.FrequencyCustom:
		if h.FrequencyValue != nil {
			return fmt.Sprintf("every %d days", *h.FrequencyValue)
		}
		return "custom"
	default:
		return strings.ToLower(string(h.Frequency))
	}
}
