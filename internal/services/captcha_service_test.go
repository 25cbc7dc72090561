package services

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerateMathProblem(t *testing.T) {
	s := NewCaptchaService()

	for i := 0; i < 50; i++ {
		question, answer := s.GenerateMathProblem()

		var a, b int
		var op string
		if _, err := fmt.Sscanf(question, "%d %s %d", &a, &op, &b); err != nil {
			t.Fatalf("unparseable question %q: %v", question, err)
		}

		var expected int
		switch op {
		case "+":
			expected = a + b
		case "-":
			expected = a - b
		case "×":
			expected = a * b
		default:
			t.Fatalf("unexpected operator in question %q", question)
		}
		if answer != expected {
			t.Errorf("question %q: expected answer %d, got %d", question, expected, answer)
		}
		if strings.Contains(question, "-") && answer < 0 {
			t.Errorf("subtraction should not go negative: %q = %d", question, answer)
		}
		if a < 1 || a > 9 || b < 1 || b > 9 {
			t.Errorf("operands out of range in question %q", question)
		}
	}
}
