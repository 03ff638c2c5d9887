package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dcereceda/academisearch/internal/article"
)

type memCache struct {
	texts map[string]string
}

func (c *memCache) GetFullText(articleID string) (string, error) {
	return c.texts[articleID], nil
}

func (c *memCache) SaveFullText(articleID, url, content string) error {
	if c.texts == nil {
		c.texts = make(map[string]string)
	}
	c.texts[articleID] = content
	return nil
}

const articleHTML = `<!DOCTYPE html>
<html><head><title>Paper</title></head>
<body>
<article>
<h1>Microgravity and root growth</h1>
<p>Plants grown aboard the station showed altered root morphology compared
to ground controls. The effect was consistent across three independent
experiments and correlates with auxin transport changes.</p>
<p>We conclude that gravity sensing drives the observed asymmetry.</p>
</article>
</body></html>`

func TestFullTextExtractsAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	cache := &memCache{}
	reader := NewReader(cache, 2*time.Second)
	a := article.Article{ID: "a1", URL: srv.URL}

	text, err := reader.FullText(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "root morphology") {
		t.Errorf("expected extracted body text, got %q", text)
	}

	// Second call is served from cache.
	if _, err := reader.FullText(context.Background(), a); err != nil {
		t.Fatalf("cached read failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 HTTP fetch, got %d", hits)
	}
}

func TestFullTextHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	reader := NewReader(&memCache{}, 2*time.Second)
	if _, err := reader.FullText(context.Background(), article.Article{ID: "a1", URL: srv.URL}); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFullTextMissingURL(t *testing.T) {
	reader := NewReader(&memCache{}, time.Second)
	if _, err := reader.FullText(context.Background(), article.Article{ID: "a1"}); err == nil {
		t.Fatal("expected error for article without URL")
	}
}
