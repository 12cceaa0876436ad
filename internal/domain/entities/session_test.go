package entities

import (
	"fmt"
	"testing"
)

func testQuestions() []Question {
	qs := make([]Question, NumQuestions)
	for i := range qs {
		qs[i] = Question{
			Prompt:  "q",
			Options: []string{"A", "B", "C", "D"},
		}
	}
	return qs
}

func TestSessionAllAnswered(t *testing.T) {
	s := NewSession(testQuestions())
	if s.AllAnswered() {
		t.Fatal("fresh session reported all answered")
	}

	for i := 0; i < NumQuestions; i++ {
		s.Set(i, i%NumOptions)
	}
	if !s.AllAnswered() {
		t.Fatal("fully answered session reported incomplete")
	}

	for missing := 0; missing < NumQuestions; missing++ {
		t.Run(fmt.Sprintf("missing %d", missing), func(t *testing.T) {
			s := NewSession(testQuestions())
			for i := 0; i < NumQuestions; i++ {
				if i != missing {
					s.Set(i, 0)
				}
			}
			if s.AllAnswered() {
				t.Errorf("slot %d unset but AllAnswered is true", missing)
			}
		})
	}
}

func TestSessionGetSet(t *testing.T) {
	s := NewSession(testQuestions())

	if _, ok := s.Get(2); ok {
		t.Fatal("unset slot reported as answered")
	}

	s.Set(2, 3)
	got, ok := s.Get(2)
	if !ok || got != "D" {
		t.Fatalf("Get(2) = %q, %v; want D, true", got, ok)
	}

	idx, ok := s.Selected(2)
	if !ok || idx != 3 {
		t.Fatalf("Selected(2) = %d, %v; want 3, true", idx, ok)
	}

	s.Set(2, 0)
	if got, _ := s.Get(2); got != "A" {
		t.Fatalf("Get(2) after overwrite = %q, want A", got)
	}
}

func TestSessionDuplicateOptionTexts(t *testing.T) {
	qs := testQuestions()
	qs[0].Options = []string{"same", "same", "other", "x"}
	s := NewSession(qs)

	s.Set(0, 1)
	idx, _ := s.Selected(0)
	if idx != 1 {
		t.Fatalf("Selected(0) = %d, want 1", idx)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(testQuestions())
	for i := 0; i < NumQuestions; i++ {
		s.Set(i, 1)
	}
	s.Commit("result")

	s.Reset()

	if s.AllAnswered() {
		t.Error("AllAnswered true after reset")
	}
	text, ok := s.Result()
	if ok || text != "" {
		t.Errorf("Result() = %q, %v after reset", text, ok)
	}
	if s.State != StateIdle {
		t.Errorf("State = %q, want idle", s.State)
	}
}

func TestSessionCommitAndBegin(t *testing.T) {
	s := NewSession(testQuestions())
	s.Commit("🐾 Dog")

	text, ok := s.Result()
	if !ok || text != "🐾 Dog" {
		t.Fatalf("Result() = %q, %v", text, ok)
	}

	s.BeginGeneration()
	if _, ok := s.Result(); ok {
		t.Fatal("result still present after BeginGeneration")
	}
	if s.State != StateGenerating {
		t.Fatalf("State = %q, want generating", s.State)
	}
}

func TestSessionAnswers(t *testing.T) {
	s := NewSession(testQuestions())
	s.Set(0, 0)
	s.Set(4, 3)

	got := s.Answers()
	want := []string{"A", "", "", "", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Answers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSessionOutOfRangePanics(t *testing.T) {
	s := NewSession(testQuestions())

	defer func() {
		if r := recover(); r == nil {
			t.Error("Set with out-of-range index did not panic")
		}
	}()
	s.Set(NumQuestions, 0)
}
