// Package domain contains the obfuscation pipeline and the batch workflow
// around it.
package domain

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"

	"luaveil.dev/pkg/luaveil/internal/domain/passes"
	"luaveil.dev/pkg/luaveil/internal/namegen"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

// Options tune a single Obfuscate call.
type Options struct {
	Seed   int64
	Seeded bool
	Rand   *mathrand.Rand
	// ControlFlowProbability overrides the level default when >= 0.
	ControlFlowProbability float64
}

// Option is a functional option for Obfuscate.
type Option func(*Options)

// WithSeed makes the output reproducible.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
		o.Seeded = true
	}
}

// WithRand supplies the random source. It wins over WithSeed.
func WithRand(r *mathrand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// WithControlFlowProbability overrides the chance of a control-flow block
// after each line.
func WithControlFlowProbability(p float64) Option {
	return func(o *Options) {
		o.ControlFlowProbability = p
	}
}

func newOptions(opts []Option) Options {
	o := Options{ControlFlowProbability: -1}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Obfuscator rewrites Lua source.
type Obfuscator interface {
	Obfuscate(source string, level m.Level, opts ...Option) (string, error)
}

type obfuscator struct{}

// NewObfuscator creates the default Obfuscator.
func NewObfuscator() Obfuscator {
	return &obfuscator{}
}

// Obfuscate runs the passes selected for level over source. Whitespace-only
// input yields an empty result.
func (o *obfuscator) Obfuscate(source string, level m.Level, opts ...Option) (string, error) {
	return Obfuscate(source, level, opts...)
}

// Obfuscate is the package-level form of Obfuscator.Obfuscate.
func Obfuscate(source string, level m.Level, opts ...Option) (string, error) {
	options := newOptions(opts)

	plan, err := Select(level, options.ControlFlowProbability)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	r := options.Rand
	if r == nil {
		r, _ = namegen.NewRand(options.Seed, options.Seeded)
	}

	pc := passes.NewContext(r, level, plan.Names, plan.Junk)
	out := source

	for _, p := range plan.Passes {
		out, err = p.Apply(out, pc)
		if err != nil {
			return "", fmt.Errorf("%s pass: %w", p.Name(), err)
		}
	}

	slog.Debug("Obfuscated source", "level", int(level), "in", len(source), "out", len(out), "identifiers", pc.Identifiers.Len())

	return out, nil
}
