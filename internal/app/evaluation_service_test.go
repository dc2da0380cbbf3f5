package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"finergy-service/internal/domain"
	"finergy-service/internal/infra/memory"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

// answersWorth builds a full valid answer set whose points sum to total.
func answersWorth(t *testing.T, total int) map[int]domain.Answer {
	t.Helper()
	answers := make(map[int]domain.Answer, domain.QuestionCount)
	remaining := total
	for _, question := range domain.Questions() {
		points := remaining
		if points > domain.MaxPointsPerQuestion {
			points = domain.MaxPointsPerQuestion
		}
		var chosen *domain.QuestionOption
		for i, option := range question.Options {
			if option.Points == points {
				chosen = &question.Options[i]
				break
			}
		}
		if chosen == nil {
			t.Fatalf("question %d has no option worth %d points", question.ID, points)
		}
		answers[question.ID] = domain.Answer{QuestionID: question.ID, Text: chosen.Text, Points: chosen.Points}
		remaining -= points
	}
	if remaining != 0 {
		t.Fatalf("could not distribute %d points", total)
	}
	return answers
}

func TestEvaluationScoreScale(t *testing.T) {
	cases := []struct {
		total int
		want  float64
	}{
		{0, 1.0},
		{5, 2.0},
		{10, 3.0},
		{22, 5.4},
		{23, 5.6},
		{45, 10.0},
	}
	for _, tc := range cases {
		if got := EvaluationScore(tc.total); got != tc.want {
			t.Errorf("EvaluationScore(%d) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

func TestValidateZipCode(t *testing.T) {
	valid := []string{"94720", "00000", "10001"}
	for _, zip := range valid {
		if !ValidateZipCode(zip) {
			t.Errorf("expected %q to be valid", zip)
		}
	}
	invalid := []string{"", "947", "947200", "9472a", "94 20", "９４７２０"}
	for _, zip := range invalid {
		if ValidateZipCode(zip) {
			t.Errorf("expected %q to be invalid", zip)
		}
	}
}

func TestSubmitPersistsScoreAndProfile(t *testing.T) {
	store := memory.NewStore()
	svc := NewEvaluationServiceWithClock(store, fixedClock)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "u1", answersWorth(t, 45), "94720")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 10.0 {
		t.Fatalf("expected score 10.0, got %v", result.Score)
	}

	profile, stored, err := svc.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.ZipCode != "94720" {
		t.Fatalf("expected zip persisted, got %q", profile.ZipCode)
	}
	if stored == nil || stored.Score != 10.0 || len(stored.Answers) != domain.QuestionCount {
		t.Fatalf("unexpected stored evaluation: %+v", stored)
	}
}

func TestSubmitValidation(t *testing.T) {
	store := memory.NewStore()
	svc := NewEvaluationServiceWithClock(store, fixedClock)
	ctx := context.Background()
	full := answersWorth(t, 30)

	if _, err := svc.Submit(ctx, "", full, "94720"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", full, "9472a"); !errors.Is(err, domain.ErrInvalidZipCode) {
		t.Fatalf("expected ErrInvalidZipCode, got %v", err)
	}

	partial := answersWorth(t, 30)
	delete(partial, 1)
	if _, err := svc.Submit(ctx, "u1", partial, "94720"); !errors.Is(err, domain.ErrIncompleteAnswers) {
		t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
	}

	mismatched := answersWorth(t, 30)
	mismatched[1] = domain.Answer{QuestionID: 1, Points: 99}
	if _, err := svc.Submit(ctx, "u1", mismatched, "94720"); !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}

	// A rejected submit writes nothing.
	if _, _, err := svc.GetUser(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user document after failed submits, got %v", err)
	}
}

func TestResubmitOverwritesPreviousResult(t *testing.T) {
	store := memory.NewStore()
	svc := NewEvaluationServiceWithClock(store, fixedClock)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "u1", answersWorth(t, 10), "94720"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", answersWorth(t, 45), "94110"); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	profile, stored, err := svc.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.Score != 10.0 || profile.ZipCode != "94110" {
		t.Fatalf("expected latest submission to win, got score=%v zip=%q", stored.Score, profile.ZipCode)
	}
}

func TestGetUserBeforeEvaluation(t *testing.T) {
	store := memory.NewStore()
	svc := NewEvaluationServiceWithClock(store, fixedClock)
	ctx := context.Background()

	if err := store.Merge(ctx, usersCollection, "u1", map[string]any{
		"id":      "u1",
		"profile": map[string]any{"username": "alice"},
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	profile, result, err := svc.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil evaluation before first survey, got %+v", result)
	}
	if profile.Username != "alice" {
		t.Fatalf("expected profile decoded, got %+v", profile)
	}
}
