// Package search talks to the remote RAG search service and normalizes
// its results. Every failure class (transport, status, body, timeout)
// collapses into a single error; callers decide whether to substitute
// the fallback catalog.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dcereceda/academisearch/internal/article"
)

// ResultSet is a normalized search response.
type ResultSet struct {
	Query    string
	Count    int
	Articles []article.Article
}

// Client issues search requests against the remote endpoint.
type Client struct {
	endpoint    string
	resultCount int
	generate    bool
	client      *http.Client

	// connected reflects the outcome of the most recent attempt. Atomic:
	// concurrent page renders read it while a search is in flight.
	connected atomic.Bool
}

// NewClient creates a search client. A zero timeout defaults to 8s.
func NewClient(endpoint string, timeout time.Duration, resultCount int, generate bool) *Client {
	if timeout == 0 {
		timeout = 8 * time.Second
	}
	if resultCount <= 0 {
		resultCount = 6
	}
	return &Client{
		endpoint:    endpoint,
		resultCount: resultCount,
		generate:    generate,
		client:      &http.Client{Timeout: timeout},
	}
}

// Connected reports whether the last search attempt reached the service.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// wire shapes of the remote service.
type searchRequest struct {
	Query    string `json:"query"`
	K        int    `json:"k"`
	Generate bool   `json:"generate"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Count   int    `json:"count"`
	Results []struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		URL         string  `json:"url"`
		DOI         string  `json:"doi"`
		Year        *int    `json:"year"`
		Authors     string  `json:"autores"`
		Category    string  `json:"categorias"`
		ArticleType string  `json:"tipo_articulo"`
		Score       float64 `json:"score"`
		Snippet     string  `json:"snippet"`
	} `json:"results"`
}

// Search posts the query to the remote endpoint and maps the response
// into the internal article shape. No automatic retry.
func (c *Client) Search(ctx context.Context, query string) (*ResultSet, error) {
	body, err := json.Marshal(searchRequest{
		Query:    query,
		K:        c.resultCount,
		Generate: c.generate,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.connected.Store(false)
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.connected.Store(false)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.connected.Store(false)
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.connected.Store(false)
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	c.connected.Store(true)
	return &ResultSet{
		Query:    decoded.Query,
		Count:    decoded.Count,
		Articles: mapResults(decoded),
	}, nil
}

// mapResults converts the wire shape to the internal article shape
// verbatim, substituting a placeholder for an absent year.
func mapResults(resp searchResponse) []article.Article {
	articles := make([]article.Article, 0, len(resp.Results))
	for _, r := range resp.Results {
		year := article.YearUnknown
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		articles = append(articles, article.Article{
			ID:       r.ID,
			Title:    r.Title,
			Author:   r.Authors,
			Year:     year,
			Topic:    r.Category,
			Abstract: r.Snippet,
			URL:      r.URL,
			DOI:      r.DOI,
			Score:    r.Score,
			Type:     r.ArticleType,
		})
	}
	return articles
}
