package session

import (
	"log"

	"github.com/dcereceda/academisearch/internal/database"
	"github.com/dcereceda/academisearch/internal/search"
)

// CatalogFallback prefers the locally collected catalog over the embedded
// canned set when the remote search is down. An empty or failing catalog
// degrades to the embedded set.
func CatalogFallback(db *database.DB, limit int) func(query string) *search.ResultSet {
	return func(query string) *search.ResultSet {
		articles, err := db.CatalogSearch(query, limit)
		if err != nil {
			log.Printf("Catalog fallback failed: %v", err)
			return search.Fallback(query)
		}
		if len(articles) == 0 {
			return search.Fallback(query)
		}
		return &search.ResultSet{
			Query:    query,
			Count:    len(articles),
			Articles: articles,
		}
	}
}
