// ABOUTME: Cheap structural-complexity estimate for source snippets
// ABOUTME: Keyword-count proxy normalized by source length, not true cyclomatic complexity

package triggers

import (
	"regexp"
	"strings"
)

// controlFlowPattern matches one occurrence of a conditional, loop or
// exception-handling keyword.
var controlFlowPattern = regexp.MustCompile(`\b(if|elif|for|while|try|except)\b`)

// EstimateComplexity computes an approximate structural-complexity
// score in [0,10]: a base of 1 plus one per control-flow keyword
// occurrence, divided by max(nonBlankLines/10, 1). This is a heuristic
// proxy, not a cyclomatic-complexity computation.
func EstimateComplexity(code string) float64 {
	score := 1.0
	score += float64(len(controlFlowPattern.FindAllString(code, -1)))

	nonBlank := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}

	divisor := float64(nonBlank) / 10.0
	if divisor < 1.0 {
		divisor = 1.0
	}
	score /= divisor

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
