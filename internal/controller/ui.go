// Package controller renders workflow output for the command line.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

// RunInfo describes a batch before it starts.
type RunInfo struct {
	RunID   string
	Scripts int
	Level   m.Level
	Threads int
	Seed    int64
	Verify  bool
}

// LevelInfo describes what one severity level does.
type LevelInfo struct {
	Level       m.Level
	Passes      []string
	ControlFlow float64
}

// SessionPart selects what DisplaySession prints.
type SessionPart int

// Available SessionPart values.
const (
	SessionOutput SessionPart = iota
	SessionInput
	SessionLevel
)

// UI defines how workflow progress and results reach the user.
// Implementations can use different output methods.
type UI interface {
	DisplayRunInfo(ctx context.Context, info RunInfo)
	DisplayResults(ctx context.Context, results []m.Result)
	DisplayDiff(ctx context.Context, path m.Path, before, after string)
	DisplayScript(ctx context.Context, script string)
	DisplayLevels(ctx context.Context, levels []LevelInfo)
	DisplaySession(ctx context.Context, session m.Session, part SessionPart)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
