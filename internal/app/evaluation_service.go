package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"finergy-service/internal/docstore"
	"finergy-service/internal/domain"
)

const usersCollection = "users"

var zipCodePattern = regexp.MustCompile(`^\d{5}$`)

// ValidateZipCode accepts exactly five ASCII digits.
func ValidateZipCode(zip string) bool {
	return zipCodePattern.MatchString(zip)
}

// EvaluationScore maps a raw point total in [0, 45] onto the 1.0..10.0
// scale, rounded to one decimal. The linear rescale keeps every user in a
// bounded, human-readable range so cohort comparison stays meaningful.
func EvaluationScore(totalPoints int) float64 {
	raw := 1 + float64(totalPoints)*9/float64(domain.MaxTotalPoints)
	return math.Round(raw*10) / 10
}

// EvaluationService turns a completed survey into a persisted energy score.
type EvaluationService struct {
	store    docstore.Store
	clock    func() time.Time
	notifier ScoreNotifier
}

func NewEvaluationService(store docstore.Store) *EvaluationService {
	return &EvaluationService{store: store, clock: time.Now}
}

// NewEvaluationServiceWithClock is test-only for deterministic timestamps.
func NewEvaluationServiceWithClock(store docstore.Store, now func() time.Time) *EvaluationService {
	return &EvaluationService{store: store, clock: now}
}

// SetNotifier attaches the hub that rebroadcasts cohort leaderboards after
// score-affecting writes. Attached post-construction because the hub ranks
// through the challenge service.
func (s *EvaluationService) SetNotifier(n ScoreNotifier) {
	s.notifier = n
}

// Submit validates a full answer set plus zip code, computes the score, and
// merge-writes profile and evaluation results into the user document.
// Nothing is written when validation fails. Resubmission is idempotent for
// identical input apart from completedAt.
func (s *EvaluationService) Submit(ctx context.Context, userID string, answers map[int]domain.Answer, zipCode string) (domain.EvaluationResult, error) {
	if userID == "" {
		return domain.EvaluationResult{}, domain.ErrUnauthenticated
	}
	if !ValidateZipCode(zipCode) {
		return domain.EvaluationResult{}, domain.ErrInvalidZipCode
	}
	if err := validateAnswers(answers); err != nil {
		return domain.EvaluationResult{}, err
	}

	totalPoints := 0
	for _, answer := range answers {
		totalPoints += answer.Points
	}

	now := s.clock()
	result := domain.EvaluationResult{
		Score:       EvaluationScore(totalPoints),
		CompletedAt: now,
		Answers:     answers,
	}

	resultDoc, err := docstore.Encode(result)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("encode evaluation: %w", err)
	}
	fields := docstore.Document{
		"profile": map[string]any{
			"zipCode":     zipCode,
			"lastUpdated": now.Format(time.RFC3339Nano),
		},
		"evaluationResults": map[string]any(resultDoc),
	}
	if err := s.store.Merge(ctx, usersCollection, userID, fields); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("save evaluation: %w: %v", domain.ErrStorageUnavailable, err)
	}

	if s.notifier != nil {
		s.notifier.ScoreChanged(zipCode)
	}
	return result, nil
}

// GetUser loads the user document into its typed profile and evaluation
// parts. The evaluation pointer is nil before the first completed survey.
func (s *EvaluationService) GetUser(ctx context.Context, userID string) (domain.UserProfile, *domain.EvaluationResult, error) {
	doc, err := s.store.Get(ctx, usersCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.UserProfile{}, nil, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, nil, fmt.Errorf("load user: %w: %v", domain.ErrStorageUnavailable, err)
	}

	var profile domain.UserProfile
	if raw, ok := doc.At("profile"); ok {
		if m, isMap := raw.(map[string]any); isMap {
			if err := docstore.Decode(m, &profile); err != nil {
				return domain.UserProfile{}, nil, fmt.Errorf("decode profile: %w", err)
			}
		}
	}

	raw, ok := doc.At("evaluationResults")
	if !ok {
		return profile, nil, nil
	}
	m, isMap := raw.(map[string]any)
	if !isMap {
		return profile, nil, nil
	}
	var result domain.EvaluationResult
	if err := docstore.Decode(m, &result); err != nil {
		return domain.UserProfile{}, nil, fmt.Errorf("decode evaluation: %w", err)
	}
	return profile, &result, nil
}

// validateAnswers requires one catalog-consistent answer per survey question.
func validateAnswers(answers map[int]domain.Answer) error {
	if len(answers) != domain.QuestionCount {
		return domain.ErrIncompleteAnswers
	}
	for id, answer := range answers {
		question, ok := domain.QuestionByID(id)
		if !ok {
			return fmt.Errorf("%w: unknown question %d", domain.ErrInvalidAnswer, id)
		}
		if answer.QuestionID != 0 && answer.QuestionID != id {
			return fmt.Errorf("%w: answer keyed under question %d names question %d", domain.ErrInvalidAnswer, id, answer.QuestionID)
		}
		valid := false
		for _, option := range question.Options {
			if option.Points == answer.Points && (answer.Text == "" || answer.Text == option.Text) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: question %d has no option worth %d points", domain.ErrInvalidAnswer, id, answer.Points)
		}
	}
	return nil
}
