package app

import (
	"context"
	"errors"
	"testing"

	"finergy-service/internal/domain"
)

type fakeNewsProvider struct {
	lastKeywords []string
	articles     []domain.Article
	err          error
}

func (f *fakeNewsProvider) Articles(_ context.Context, keywords []string, _ int) ([]domain.Article, error) {
	f.lastKeywords = keywords
	return f.articles, f.err
}

func (f *fakeNewsProvider) Latest(context.Context, int) ([]domain.Article, error) {
	return f.articles, f.err
}

type fakeLocator struct {
	city, province string
	err            error
}

func (f fakeLocator) Locate(context.Context, string) (string, string, error) {
	return f.city, f.province, f.err
}

func TestLocalNewsUsesGeoKeywords(t *testing.T) {
	provider := &fakeNewsProvider{articles: []domain.Article{{ID: "a1"}}}
	svc := NewNewsService(provider, fakeLocator{city: "Berkeley", province: "California"})

	articles := svc.Local(context.Background(), "94720", 5)
	if len(articles) != 1 {
		t.Fatalf("expected one article, got %d", len(articles))
	}
	if len(provider.lastKeywords) != 2 || provider.lastKeywords[0] != "California" || provider.lastKeywords[1] != "Berkeley" {
		t.Fatalf("unexpected keywords: %v", provider.lastKeywords)
	}
}

func TestLocalNewsDegradesOnLocatorFailure(t *testing.T) {
	provider := &fakeNewsProvider{articles: []domain.Article{{ID: "a1"}}}
	svc := NewNewsService(provider, fakeLocator{err: errors.New("quota exceeded")})

	articles := svc.Local(context.Background(), "94720", 5)
	if len(articles) != 1 {
		t.Fatalf("expected articles despite locator failure, got %d", len(articles))
	}
	if provider.lastKeywords[0] != "Unknown" || provider.lastKeywords[1] != "Unknown" {
		t.Fatalf("expected Unknown fallback keywords, got %v", provider.lastKeywords)
	}
}

func TestNewsDegradesToEmptyOnProviderFailure(t *testing.T) {
	provider := &fakeNewsProvider{err: errors.New("upstream 500")}
	svc := NewNewsService(provider, fakeLocator{city: "Berkeley", province: "California"})
	ctx := context.Background()

	if articles := svc.Local(ctx, "94720", 5); len(articles) != 0 {
		t.Fatalf("expected empty local feed, got %v", articles)
	}
	if articles := svc.Finance(ctx, 5); len(articles) != 0 {
		t.Fatalf("expected empty finance feed, got %v", articles)
	}
	if articles := svc.Trending(ctx, 5); len(articles) != 0 {
		t.Fatalf("expected empty trending feed, got %v", articles)
	}
}
