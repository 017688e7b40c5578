// Package luaveil obfuscates Lua source code.
//
//	out, err := luaveil.Obfuscate(src, luaveil.Standard, luaveil.WithSeed(7))
//
// The result behaves like src but has its locals renamed and its string
// literals replaced by generated decoders. Standard and Maximum also mix in
// dead control flow; Maximum adds junk functions and comment noise. Calls
// are independent and safe for concurrent use.
package luaveil

import (
	"math/rand"

	"luaveil.dev/pkg/luaveil/internal/domain"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

// Severity levels accepted by Obfuscate.
const (
	Minimal  = int(m.LevelMinimal)
	Standard = int(m.LevelStandard)
	Maximum  = int(m.LevelMaximum)
)

// ErrInvalidSeverity is returned for levels other than 1, 2 and 3.
var ErrInvalidSeverity = m.ErrInvalidSeverity

// Option tunes a single Obfuscate call.
type Option = domain.Option

// Metrics describes an obfuscated script.
type Metrics = m.Metrics

// WithSeed makes the output byte-for-byte reproducible.
func WithSeed(seed int64) Option {
	return domain.WithSeed(seed)
}

// WithRand supplies the random source. It takes precedence over WithSeed.
// The source must not be shared with concurrent calls.
func WithRand(r *rand.Rand) Option {
	return domain.WithRand(r)
}

// WithControlFlowProbability overrides the per-line chance of a control-flow
// block at Standard and Maximum.
func WithControlFlowProbability(p float64) Option {
	return domain.WithControlFlowProbability(p)
}

// Obfuscate returns an obfuscated but equivalent version of source.
// Whitespace-only source yields "".
func Obfuscate(source string, level int, opts ...Option) (string, error) {
	l, err := m.CheckLevel(level)
	if err != nil {
		return "", err
	}

	return domain.Obfuscate(source, l, opts...)
}

// Measure computes metrics for obfuscated relative to original.
func Measure(original, obfuscated string) Metrics {
	return domain.ComputeMetrics(obfuscated, len(original))
}
