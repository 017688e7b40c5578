// Package model defines the data structures shared by the obfuscation pipeline.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSeverity is returned for severity levels outside 1..3.
var ErrInvalidSeverity = errors.New("invalid severity level")

// Level selects which obfuscation passes run and how aggressively.
type Level int

const (
	// LevelMinimal renames locals and XORs strings with a fixed key.
	LevelMinimal Level = 1
	// LevelStandard adds control-flow camouflage and per-string keys.
	LevelStandard Level = 2
	// LevelMaximum enables every pass.
	LevelMaximum Level = 3
)

// Levels lists every supported level in ascending order.
var Levels = []Level{LevelMinimal, LevelStandard, LevelMaximum}

// Valid reports whether l is a supported level.
func (l Level) Valid() bool {
	return l >= LevelMinimal && l <= LevelMaximum
}

// Name returns the short label of the level.
func (l Level) Name() string {
	switch l {
	case LevelMinimal:
		return "Minimal"
	case LevelStandard:
		return "Standard"
	case LevelMaximum:
		return "Maximum"
	default:
		return "Unknown"
	}
}

// Description returns the one-line trade-off summary shown to users.
func (l Level) Description() string {
	switch l {
	case LevelMinimal:
		return "Fastest, basic security"
	case LevelStandard:
		return "Balanced"
	case LevelMaximum:
		return "Slowest, best security"
	default:
		return ""
	}
}

func (l Level) String() string {
	return fmt.Sprintf("%d (%s)", int(l), l.Name())
}

// ParseLevel converts a numeric or named level into a Level.
func ParseLevel(value string) (Level, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	for _, l := range Levels {
		if v == strings.ToLower(l.Name()) {
			return l, nil
		}
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeverity, value)
	}

	return CheckLevel(n)
}

// CheckLevel rejects integers that are not a supported level.
func CheckLevel(n int) (Level, error) {
	l := Level(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d (valid 1..3)", ErrInvalidSeverity, n)
	}

	return l, nil
}
