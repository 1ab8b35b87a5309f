package models

import (
	"errors"
	"fmt"
	"strings"
)

// Frequency describes how often a habit is expected to be performed
type Frequency string

// Priority is a user-assigned weight for a habit
type Priority string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	// ErrInvalidDraft is returned when a habit draft is missing required fields
	ErrInvalidDraft = errors.New("invalid habit draft")
	// ErrHabitNotFound is returned when a command names a habit that is not in the registry
	ErrHabitNotFound = errors.New("habit not found")
	// ErrAmbiguousHabit is returned when a name prefix matches more than one habit
	ErrAmbiguousHabit = errors.New("habit name is ambiguous")
)

// Habit represents a tracked behavior definition
type Habit struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Frequency      Frequency `json:"frequency"`
	FrequencyValue *int      `json:"frequencyValue,omitempty"`
	StartDate      string    `json:"startDate"` // YYYY-MM-DD format
	Priority       Priority  `json:"priority"`
	Notes          string    `json:"notes,omitempty"`
	IsArchived     bool      `json:"isArchived"`
	Color          string    `json:"color,omitempty"`
}

// IsActive reports whether the habit counts toward daily targets
func (h Habit) IsActive() bool {
	return !h.IsArchived
}

// HabitLog represents a single day's completion record for one habit
type HabitLog struct {
	HabitID   string `json:"habitId"`
	Date      string `json:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed"`
}

// HabitDraft holds the user-supplied fields of a habit before creation
type HabitDraft struct {
	Name           string
	Category       string
	Frequency      Frequency
	FrequencyValue *int
	Priority       Priority
	Notes          string
	Color          string
}

// Normalize trims text fields and fills in default frequency and priority
func (d HabitDraft) Normalize() HabitDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Color = strings.TrimSpace(d.Color)
	if d.Frequency == "" {
		d.Frequency = FrequencyDaily
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Frequency == FrequencyDaily {
		d.FrequencyValue = nil
	}
	return d
}

// Validate checks the draft after normalization
func (d HabitDraft) Validate() error {
	d = d.Normalize()
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}
	if d.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidDraft)
	}
	if !d.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidDraft, d.Frequency)
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDraft, d.Priority)
	}
	if d.FrequencyValue != nil && *d.FrequencyValue <= 0 {
		return fmt.Errorf("%w: frequency value must be positive", ErrInvalidDraft)
	}
	return nil
}

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseFrequency parses a frequency name case-insensitively
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid frequency: %s (expected daily, weekly or custom)", s)
	}
	return f, nil
}

// ParsePriority parses a priority name case-insensitively
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority: %s (expected low, medium or high)", s)
	}
	return p, nil
}
