package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finergy-service/internal/domain"
)

const (
	defaultBaseURL   = "https://eventregistry.org/api/v1"
	articlesPath     = "/article/getArticles"
	minuteStreamPath = "/minuteStreamArticles"
)

// Client wraps the Event Registry article API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type articlesRequest struct {
	Action             string   `json:"action"`
	Keyword            []string `json:"keyword"`
	KeywordOper        string   `json:"keywordOper"`
	Lang               string   `json:"lang"`
	IgnoreSourceGroup  string   `json:"ignoreSourceGroupUri"`
	ArticlesPage       int      `json:"articlesPage"`
	ArticlesCount      int      `json:"articlesCount"`
	ArticlesSortBy     string   `json:"articlesSortBy"`
	ArticlesSortByAsc  string   `json:"articlesSortByAsc"`
	DataType           []string `json:"dataType"`
	ForceMaxTimeWindow int      `json:"forceMaxDataTimeWindow"`
	ResultType         string   `json:"resultType"`
	APIKey             string   `json:"apiKey"`
}

type rawArticle struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Image  string `json:"image"`
	URL    string `json:"url"`
	Date   string `json:"date"`
	Source struct {
		Title string `json:"title"`
	} `json:"source"`
}

type articlesResponse struct {
	Articles struct {
		Results []rawArticle `json:"results"`
	} `json:"articles"`
}

type minuteStreamRequest struct {
	Lang            string `json:"lang"`
	ArticleBodyLen  int    `json:"articleBodyLen"`
	APIKey          string `json:"apiKey"`
	MaxArticleCount int    `json:"recentActivityArticlesMaxArticleCount"`
}

type minuteStreamResponse struct {
	RecentActivityArticles struct {
		Activity []rawArticle `json:"activity"`
	} `json:"recentActivityArticles"`
}

// Articles fetches relevance-sorted news for a keyword set.
func (c *Client) Articles(ctx context.Context, keywords []string, count int) ([]domain.Article, error) {
	body := articlesRequest{
		Action:             "getArticles",
		Keyword:            keywords,
		KeywordOper:        "or",
		Lang:               "eng",
		IgnoreSourceGroup:  "paywall/paywalled_sources",
		ArticlesPage:       1,
		ArticlesCount:      count,
		ArticlesSortBy:     "rel",
		ArticlesSortByAsc:  "false",
		DataType:           []string{"news"},
		ForceMaxTimeWindow: 31,
		ResultType:         "articles",
		APIKey:             c.apiKey,
	}
	var payload articlesResponse
	if err := c.post(ctx, articlesPath, body, &payload); err != nil {
		return nil, err
	}
	return normalize(payload.Articles.Results), nil
}

// Latest fetches the most recent articles from the minute stream.
func (c *Client) Latest(ctx context.Context, count int) ([]domain.Article, error) {
	body := minuteStreamRequest{
		Lang:            "eng",
		ArticleBodyLen:  1,
		APIKey:          c.apiKey,
		MaxArticleCount: count,
	}
	var payload minuteStreamResponse
	if err := c.post(ctx, minuteStreamPath, body, &payload); err != nil {
		return nil, err
	}
	return normalize(payload.RecentActivityArticles.Activity), nil
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal news request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch news: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode news response: %w", err)
	}
	return nil
}

func normalize(raw []rawArticle) []domain.Article {
	articles := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, domain.Article{
			ID:     a.URI,
			Title:  a.Title,
			Body:   a.Body,
			Image:  a.Image,
			URL:    a.URL,
			Date:   a.Date,
			Source: a.Source.Title,
		})
	}
	return articles
}
