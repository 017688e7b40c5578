package model

import "time"

// Metrics holds objective measures on a generated script.
type Metrics struct {
	SizeBytes     int
	LineCount     int
	UniqueSymbols int
	Entropy       float64 // bits per symbol
	AlnumRatio    float64
	SizeRatio     float64 // output/input, >1 means larger
}

// VerifyStatus is the outcome of running original and obfuscated scripts.
type VerifyStatus int

const (
	// NotVerified means verification was not requested.
	NotVerified VerifyStatus = iota
	// Equivalent means both scripts produced the same results and output.
	Equivalent
	// Diverged means the scripts behaved differently.
	Diverged
	// VerifyFailed means a script could not be executed.
	VerifyFailed
)

func (s VerifyStatus) String() string {
	switch s {
	case NotVerified:
		return "-"
	case Equivalent:
		return "equivalent"
	case Diverged:
		return "diverged"
	case VerifyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of obfuscating one script.
type Result struct {
	Source   Path
	Output   Path
	Level    Level
	Seed     int64
	InSize   int
	Metrics  Metrics
	Verify   VerifyStatus
	Detail   string // verification detail when not equivalent
	Duration time.Duration
	Err      error
}
