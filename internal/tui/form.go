package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ritual/internal/models"
)

// HabitFormModel backs the add-habit form
type HabitFormModel struct {
	Name      string
	Category  string
	Frequency models.Frequency
	Per       string
	Priority  models.Priority
	Color     string
	Notes     string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Frequency: models.FrequencyDaily,
		Priority:  models.PriorityMedium,
		Color:     models.DefaultColor,
	}
}

// Draft converts the form fields into a habit draft.
func (fm *HabitFormModel) Draft() (models.HabitDraft, error) {
	draft := models.HabitDraft{
		Name:      fm.Name,
		Category:  fm.Category,
		Frequency: fm.Frequency,
		Priority:  fm.Priority,
		Notes:     fm.Notes,
		Color:     fm.Color,
	}
	if per := strings.TrimSpace(fm.Per); per != "" && fm.Frequency != models.FrequencyDaily {
		n, err := strconv.Atoi(per)
		if err != nil {
			return models.HabitDraft{}, fmt.Errorf("invalid number: %s", per)
		}
		draft.FrequencyValue = &n
	}
	return draft, nil
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	colors := make([]huh.Option[string], len(models.Palette))
	for i, c := range models.Palette {
		colors[i] = huh.NewOption(c.Name, c.Value)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(notBlank("habit name")),
			huh.NewInput().
				Title("Category").
				Placeholder("Health, Work, Mind...").
				Value(&fm.Category).
				Validate(notBlank("category")),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Custom", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Times per week / interval (days)").
				Description("Ignored for daily habits").
				Value(&fm.Per).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", models.PriorityLow),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("High", models.PriorityHigh),
				).
				Value(&fm.Priority),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
			huh.NewText().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}
