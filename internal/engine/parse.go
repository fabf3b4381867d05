package engine

import "strings"

// ParseMode parses user input to a Mode.
// If input is empty or unrecognized, returns DefaultMode.
func ParseMode(input string) Mode {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "in", "indoor", "inside", "home":
		return ModeIndoor
	case "out", "outdoor", "outside", "outdoors":
		return ModeOutdoor
	default:
		return DefaultMode
	}
}

// ParseCategory maps a free-form category to a Category, or "" when unknown.
func ParseCategory(input string) Category {
	c := Category(strings.TrimSpace(strings.ToLower(input)))
	if c.IsValid() {
		return c
	}
	return ""
}
