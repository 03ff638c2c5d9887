// Package filter derives the displayed subset of loaded articles.
package filter

import (
	"sort"
	"strings"

	"github.com/dcereceda/academisearch/internal/article"
)

// Criteria holds the four conjunctive predicates. Zero values match
// everything.
type Criteria struct {
	Text     string  // case-insensitive substring of title, abstract or author
	Topic    string  // exact match
	MinScore float64 // inclusive lower bound
	Type     string  // exact match
}

// Apply returns the articles matching all criteria, ordered by descending
// relevance score. The sort is stable: equal scores keep input order.
// The input slice is not modified.
func Apply(articles []article.Article, c Criteria) []article.Article {
	text := strings.ToLower(strings.TrimSpace(c.Text))

	var matched []article.Article
	for _, a := range articles {
		if text != "" && !containsFold(a, text) {
			continue
		}
		if c.Topic != "" && a.Topic != c.Topic {
			continue
		}
		if a.Score < c.MinScore {
			continue
		}
		if c.Type != "" && a.Type != c.Type {
			continue
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	return matched
}

func containsFold(a article.Article, lowered string) bool {
	return strings.Contains(strings.ToLower(a.Title), lowered) ||
		strings.Contains(strings.ToLower(a.Abstract), lowered) ||
		strings.Contains(strings.ToLower(a.Author), lowered)
}

// Topics returns the distinct topics of a result set in first-seen order,
// for populating the topic filter control.
func Topics(articles []article.Article) []string {
	return distinct(articles, func(a article.Article) string { return a.Topic })
}

// Types returns the distinct article types in first-seen order.
func Types(articles []article.Article) []string {
	return distinct(articles, func(a article.Article) string { return a.Type })
}

func distinct(articles []article.Article, key func(article.Article) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range articles {
		k := key(a)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
