package domain

import (
	"math"
	"strings"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

// ComputeMetrics measures an obfuscated payload against its input size.
func ComputeMetrics(payload string, inputSize int) m.Metrics {
	metrics := m.Metrics{SizeBytes: len(payload)}
	if metrics.SizeBytes == 0 {
		return metrics
	}

	freq := make(map[rune]int)
	alnum := 0
	runes := 0

	for _, r := range payload {
		freq[r]++
		runes++

		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alnum++
		}
	}

	metrics.UniqueSymbols = len(freq)
	metrics.AlnumRatio = float64(alnum) / float64(runes)
	metrics.LineCount = strings.Count(payload, "\n") + 1

	n := float64(runes)
	for _, c := range freq {
		p := float64(c) / n
		metrics.Entropy -= p * math.Log2(p)
	}

	if inputSize > 0 {
		metrics.SizeRatio = float64(metrics.SizeBytes) / float64(inputSize)
	}

	return metrics
}
