// Package fetch retrieves full article text for the reader view via HTTP
// and readability extraction, caching results in the database.
package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/dcereceda/academisearch/internal/article"
)

const maxContentLength = 100_000

// Cache is the slice of the database the reader consults and fills.
type Cache interface {
	GetFullText(articleID string) (string, error)
	SaveFullText(articleID, url, content string) error
}

// Reader fetches and extracts readable article text.
type Reader struct {
	cache  Cache
	client *http.Client
}

// NewReader creates a reader. A zero timeout defaults to 15s.
func NewReader(cache Cache, timeout time.Duration) *Reader {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Reader{
		cache: cache,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FullText returns the readable body of the article, from cache when
// available. On any failure it returns "" and the error; callers degrade
// to the abstract.
func (r *Reader) FullText(ctx context.Context, a article.Article) (string, error) {
	if r.cache != nil {
		cached, err := r.cache.GetFullText(a.ID)
		if err != nil {
			log.Printf("Full-text cache read failed for %s: %v", a.ID, err)
		} else if cached != "" {
			return cached, nil
		}
	}

	if a.URL == "" {
		return "", fmt.Errorf("article %s has no source URL", a.ID)
	}

	content, err := r.extract(ctx, a.URL)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.SaveFullText(a.ID, a.URL, content); err != nil {
			log.Printf("Full-text cache write failed for %s: %v", a.ID, err)
		}
	}
	return content, nil
}

func (r *Reader) extract(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "academisearch/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching article: HTTP %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing article URL: %w", err)
	}

	parsed, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("extracting readable content: %w", err)
	}

	content := strings.TrimSpace(parsed.TextContent)
	if content == "" {
		return "", fmt.Errorf("no readable content at %s", rawURL)
	}
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}
	return content, nil
}
