package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPriority = errors.New("priority must be one of p1, p2, p3, p4")
	ErrInvalidEnergy   = errors.New("energy must be one of low, medium, high")
	ErrInvalidWindow   = errors.New("window must be one of morning, afternoon, evening, any")
)

// Priority ranks how important a task is, p1 highest.
type Priority string

const (
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
	PriorityP4 Priority = "p4"
)

// ParsePriority validates a priority string.
func ParsePriority(value string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityP1:
		return PriorityP1, nil
	case PriorityP2:
		return PriorityP2, nil
	case PriorityP3:
		return PriorityP3, nil
	case PriorityP4:
		return PriorityP4, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, value)
	}
}

// BaseScore returns the urgency contribution of the priority alone.
func (p Priority) BaseScore() int {
	switch p {
	case PriorityP1:
		return 100
	case PriorityP2:
		return 75
	case PriorityP3:
		return 50
	case PriorityP4:
		return 25
	default:
		return 0
	}
}

func (p Priority) String() string { return string(p) }

// Energy is the effort level a task demands.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// ParseEnergy validates an energy string.
func ParseEnergy(value string) (Energy, error) {
	switch Energy(strings.ToLower(strings.TrimSpace(value))) {
	case EnergyLow:
		return EnergyLow, nil
	case EnergyMedium:
		return EnergyMedium, nil
	case EnergyHigh:
		return EnergyHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEnergy, value)
	}
}

func (e Energy) String() string { return string(e) }

// Window is the preferred time of day for working on a task.
type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
	WindowAny       Window = "any"
)

// ParseWindow validates a window string.
func ParseWindow(value string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(value))) {
	case WindowMorning:
		return WindowMorning, nil
	case WindowAfternoon:
		return WindowAfternoon, nil
	case WindowEvening:
		return WindowEvening, nil
	case WindowAny:
		return WindowAny, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWindow, value)
	}
}

func (w Window) String() string { return string(w) }
