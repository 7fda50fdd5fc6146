package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// NewsAPI клиент NewsAPI (GET /everything).
type NewsAPI struct {
	client *Client
	apiKey string
}

func NewNewsAPI(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *NewsAPI {
	return &NewsAPI{
		client: NewClient("NewsAPI", baseURL, httpClient, logger),
		apiKey: apiKey,
	}
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// SearchNews ищет статьи по q.Query, сортируя по релевантности.
func (n *NewsAPI) SearchNews(ctx context.Context, q model.NewsQuery) (*model.NewsDigest, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("News %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("apiKey", n.apiKey)
	params.Set("language", q.Language)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("sortBy", "relevancy")

	var raw newsAPIResponse
	if err := n.client.GetJSON(ctx, "/everything", params, &raw); err != nil {
		return nil, err
	}

	digest := &model.NewsDigest{
		TotalResults: raw.TotalResults,
		Articles:     make([]model.Article, 0, len(raw.Articles)),
		Query:        q.Query,
	}
	for i, a := range raw.Articles {
		if i >= q.PageSize {
			break
		}
		digest.Articles = append(digest.Articles, model.Article{
			Title:       a.Title,
			Source:      a.Source.Name,
			Author:      a.Author,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return digest, nil
}
