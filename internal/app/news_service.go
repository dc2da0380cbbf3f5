package app

import (
	"context"
	"log"

	"finergy-service/internal/domain"
)

// NewsProvider fetches articles from the news collaborator.
type NewsProvider interface {
	Articles(ctx context.Context, keywords []string, count int) ([]domain.Article, error)
	Latest(ctx context.Context, count int) ([]domain.Article, error)
}

// GeoLocator resolves a zip code into location keywords.
type GeoLocator interface {
	Locate(ctx context.Context, zip string) (city, province string, err error)
}

// NewsService assembles the home feed tabs. Collaborator failures degrade
// to an empty list and never surface to the caller.
type NewsService struct {
	provider NewsProvider
	locator  GeoLocator
}

func NewNewsService(provider NewsProvider, locator GeoLocator) *NewsService {
	return &NewsService{provider: provider, locator: locator}
}

// Local returns news for the user's area, keyed off the zip code's city and
// province. An unresolvable zip falls back to "Unknown" keywords rather
// than failing the feed.
func (s *NewsService) Local(ctx context.Context, zip string, count int) []domain.Article {
	city, province, err := s.locator.Locate(ctx, zip)
	if err != nil {
		log.Printf("zip lookup degraded for %s: %v", zip, err)
		city, province = "Unknown", "Unknown"
	}
	articles, err := s.provider.Articles(ctx, []string{province, city}, count)
	if err != nil {
		log.Printf("local news degraded: %v", err)
		return []domain.Article{}
	}
	return articles
}

// Finance returns finance-keyword news.
func (s *NewsService) Finance(ctx context.Context, count int) []domain.Article {
	articles, err := s.provider.Articles(ctx, []string{"finance"}, count)
	if err != nil {
		log.Printf("finance news degraded: %v", err)
		return []domain.Article{}
	}
	return articles
}

// Trending returns the most recent articles.
func (s *NewsService) Trending(ctx context.Context, count int) []domain.Article {
	articles, err := s.provider.Latest(ctx, count)
	if err != nil {
		log.Printf("trending news degraded: %v", err)
		return []domain.Article{}
	}
	return articles
}
