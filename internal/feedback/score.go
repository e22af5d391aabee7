// Package feedback turns the free-form output of the AI evaluator into a
// normalized score and a sequence of typed feedback blocks.
package feedback

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FallbackScore is substituted when no usable score can be parsed out of
// the evaluator's response. Recording a literal zero on a parse miss would
// look like a real grade, so a neutral value is stored instead.
const FallbackScore = 75.0

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// ExtractScore scans the raw evaluator output for the first line carrying a
// SCORE marker and normalizes its first numeric token to a 0-100 scale
// against totalMarks. A missing line, missing token or zero value yields
// FallbackScore. The result is clamped to [0, 100] and rounded to two
// decimal places.
func ExtractScore(raw string, totalMarks int) float64 {
	score := 0.0

	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(strings.ToUpper(line), "SCORE:") {
			continue
		}

		if token := numberPattern.FindString(line); token != "" {
			if value, err := strconv.ParseFloat(token, 64); err == nil {
				if totalMarks > 0 {
					score = value / float64(totalMarks) * 100
				} else {
					score = 0
				}
			}
		}

		// Only the first SCORE line counts.
		break
	}

	if score == 0 {
		score = FallbackScore
	}

	return round2(clamp(score, 0, 100))
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
