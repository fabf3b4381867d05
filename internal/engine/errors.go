package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPoints is the expected outcome of spending more than the balance.
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrUnknownItem        = errors.New("unknown shop item")
)

// GateError indicates a shop item is locked behind a required stage.
type GateError struct {
	Item          string
	RequiredStage Stage
}

func (e GateError) Error() string {
	if e.RequiredStage == "" {
		return fmt.Sprintf("item '%s' is locked", e.Item)
	}
	return fmt.Sprintf("item '%s' unlocks at stage %s", e.Item, e.RequiredStage)
}
