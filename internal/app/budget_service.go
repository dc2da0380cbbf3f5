package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"finergy-service/internal/docstore"
	"finergy-service/internal/domain"
)

// FallbackSuggestion is served whenever the advisor collaborator fails, so
// the budgeting view keeps working without the dependency.
const FallbackSuggestion = "Review your largest utility bill first: heating and cooling " +
	"usually dominate household energy spend. Lowering your thermostat by 2 degrees in " +
	"winter and sealing drafty windows are the cheapest first steps, followed by swapping " +
	"remaining incandescent bulbs for LEDs."

// SuggestionProvider produces free-text advice for a prompt.
type SuggestionProvider interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// BudgetService stores utility bills on the user document and produces
// AI-backed saving suggestions with a static fallback.
type BudgetService struct {
	store   docstore.Store
	advisor SuggestionProvider
	clock   func() time.Time
}

func NewBudgetService(store docstore.Store, advisor SuggestionProvider) *BudgetService {
	return &BudgetService{store: store, advisor: advisor, clock: time.Now}
}

// SaveBills replaces the user's bill list. Bill names must be non-empty and
// amounts non-negative; nothing is written otherwise.
func (s *BudgetService) SaveBills(ctx context.Context, userID string, bills []domain.Bill) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	for _, bill := range bills {
		if strings.TrimSpace(bill.Name) == "" || bill.Amount < 0 || math.IsNaN(bill.Amount) {
			return fmt.Errorf("%w: %q", domain.ErrInvalidBill, bill.Name)
		}
	}

	encoded := make([]any, 0, len(bills))
	for _, bill := range bills {
		encoded = append(encoded, map[string]any{"name": bill.Name, "amount": bill.Amount})
	}
	fields := docstore.Document{
		"budget": map[string]any{
			"bills":     encoded,
			"updatedAt": s.clock().Format(time.RFC3339Nano),
		},
	}
	if err := s.store.Merge(ctx, usersCollection, userID, fields); err != nil {
		return fmt.Errorf("save bills: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Bills returns the stored bill list and its total.
func (s *BudgetService) Bills(ctx context.Context, userID string) ([]domain.Bill, float64, error) {
	doc, err := s.store.Get(ctx, usersCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, 0, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load bills: %w: %v", domain.ErrStorageUnavailable, err)
	}

	var budget struct {
		Bills []domain.Bill `json:"bills"`
	}
	if raw, ok := doc.At("budget"); ok {
		if m, isMap := raw.(map[string]any); isMap {
			if err := docstore.Decode(m, &budget); err != nil {
				return nil, 0, fmt.Errorf("decode bills: %w", err)
			}
		}
	}

	total := 0.0
	for _, bill := range budget.Bills {
		total += bill.Amount
	}
	return budget.Bills, math.Round(total*100) / 100, nil
}

// Suggestion builds a prompt from the user's bills and score and asks the
// advisor for tailored advice. Advisor failure degrades to the fixed
// fallback text, never to an error.
func (s *BudgetService) Suggestion(ctx context.Context, userID string) (string, error) {
	bills, total, err := s.Bills(ctx, userID)
	if err != nil {
		return "", err
	}

	doc, err := s.store.Get(ctx, usersCollection, userID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return "", fmt.Errorf("load user: %w: %v", domain.ErrStorageUnavailable, err)
	}
	score := docstore.Document(doc).FloatAt("evaluationResults", "score")

	var b strings.Builder
	fmt.Fprintf(&b, "A household has a home energy score of %.1f out of 10 and monthly utility bills totaling $%.2f:\n", score, total)
	for _, bill := range bills {
		fmt.Fprintf(&b, "- %s: $%.2f\n", bill.Name, bill.Amount)
	}
	b.WriteString("Suggest three specific, affordable ways to lower these bills and improve the score.")

	suggestion, err := s.advisor.Suggest(ctx, b.String())
	if err != nil || strings.TrimSpace(suggestion) == "" {
		if err != nil {
			log.Printf("advisor degraded for %s: %v", userID, err)
		}
		return FallbackSuggestion, nil
	}
	return suggestion, nil
}
