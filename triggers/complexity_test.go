// ABOUTME: Tests for the structural-complexity estimate
// ABOUTME: Validates base score, keyword counting, normalization, and clamping

package triggers

import "testing"

func TestEstimateComplexity_TrivialCode(t *testing.T) {
	got := EstimateComplexity("x = 1\ny = 2\n")
	if got != 1.0 {
		t.Errorf("Expected base score 1.0 for code without control flow, got %v", got)
	}
}

func TestEstimateComplexity_CountsControlFlowKeywords(t *testing.T) {
	code := "if a:\n    pass\nfor x in y:\n    pass\ntry:\n    pass\nexcept E:\n    pass\n"
	// 4 keywords + base 1, 8 non-blank lines -> divisor 1
	got := EstimateComplexity(code)
	if got != 5.0 {
		t.Errorf("Expected score 5.0, got %v", got)
	}
}

func TestEstimateComplexity_NormalizedByLength(t *testing.T) {
	// One conditional spread over 20 non-blank lines: divisor 2
	code := "if a:\n    pass\n"
	for i := 0; i < 18; i++ {
		code += "x = 1\n"
	}
	got := EstimateComplexity(code)
	if got != 1.0 {
		t.Errorf("Expected normalized score 1.0, got %v", got)
	}
}

func TestEstimateComplexity_ClampedToTen(t *testing.T) {
	code := "if a and b: pass\n"
	for i := 0; i < 30; i++ {
		code = "if x:\n" + code
	}
	got := EstimateComplexity(code)
	if got > 10.0 {
		t.Errorf("Score exceeds clamp: %v", got)
	}
}

func TestEstimateComplexity_EmptyInput(t *testing.T) {
	got := EstimateComplexity("")
	if got != 1.0 {
		t.Errorf("Expected 1.0 for empty input, got %v", got)
	}
}
