package service

import (
	"strings"
	"testing"
)

func TestBuildUserAnswersText(t *testing.T) {
	answers := []string{"A", "B", "C", "D", "E"}

	got := BuildUserAnswersText(answers)
	want := "question1: A, question2: B, question3: C, question4: D, question5: E"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if again := BuildUserAnswersText(answers); again != got {
		t.Fatalf("non-deterministic output: %q vs %q", again, got)
	}
}

func TestNewGenerationRequest(t *testing.T) {
	req := NewGenerationRequest([]string{"와! 반가워 😊 우리 마을 어때?", "b", "c", "d", "e"})

	if !strings.HasPrefix(req.User, "question1: 와! 반가워") {
		t.Errorf("User = %q", req.User)
	}
	if strings.HasPrefix(req.System, "\n") || !strings.Contains(req.System, "🐾") {
		t.Errorf("System = %q", req.System)
	}
}
