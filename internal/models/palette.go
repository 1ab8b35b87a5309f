package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PaletteColor is a named accent color offered when creating a habit
type PaletteColor struct {
	Name  string
	Value string
}

// Palette lists the accent colors in display order. The first entry is the
// default for new habits.
var Palette = []PaletteColor{
	{Name: "Emerald", Value: "#10B981"},
	{Name: "Amber", Value: "#F59E0B"},
	{Name: "Rose", Value: "#F43F5E"},
	{Name: "Indigo", Value: "#6366F1"},
	{Name: "Violet", Value: "#8B5CF6"},
	{Name: "Slate", Value: "#475569"},
	{Name: "Teal", Value: "#14B8A6"},
}

// DefaultColor is assigned when a draft has no color.
var DefaultColor = Palette[0].Value

// ResolveColor accepts a palette name (case-insensitive) or a #RRGGBB value.
func ResolveColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}
	for _, c := range Palette {
		if strings.EqualFold(c.Name, s) {
			return c.Value, nil
		}
	}
	if len(s) == 7 && s[0] == '#' {
		if _, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return strings.ToUpper(s), nil
		}
	}
	return "", fmt.Errorf("invalid color: %s (expected a palette name or #RRGGBB)", s)
}
