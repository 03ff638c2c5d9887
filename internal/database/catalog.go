package database

import (
	"database/sql"
	"fmt"

	"github.com/dcereceda/academisearch/internal/article"
)

// UpsertCatalogArticle stores an article in the offline catalog. Returns
// true when a new row was inserted, false for an already-known URL.
func (db *DB) UpsertCatalogArticle(a article.Article, source string) (bool, error) {
	result, err := db.conn.Exec(
		`INSERT INTO catalog_articles
			(id, title, author, year, topic, abstract, url, doi, score, article_type, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			abstract = excluded.abstract,
			score = excluded.score`,
		a.ID, a.Title, a.Author, a.Year, a.Topic, a.Abstract, a.URL, a.DOI, a.Score, a.Type, source,
	)
	if err != nil {
		return false, fmt.Errorf("upserting catalog article: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// CatalogSearch returns catalog articles whose title, abstract or author
// contains the query, best score first. An empty query matches everything.
func (db *DB) CatalogSearch(query string, limit int) ([]article.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(
		`SELECT id, title, author, year, topic, abstract, url, doi, score, article_type
		FROM catalog_articles
		WHERE ? = '' OR title LIKE ? OR abstract LIKE ? OR author LIKE ?
		ORDER BY score DESC, collected_at DESC
		LIMIT ?`,
		query, like, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()
	return scanCatalogArticles(rows)
}

// CatalogCount returns the number of stored catalog articles.
func (db *DB) CatalogCount() (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM catalog_articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting catalog: %w", err)
	}
	return n, nil
}

func scanCatalogArticles(rows *sql.Rows) ([]article.Article, error) {
	var articles []article.Article
	for rows.Next() {
		var a article.Article
		var author, year, topic, abstract, doi, articleType sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &author, &year, &topic, &abstract, &a.URL, &doi, &a.Score, &articleType); err != nil {
			return nil, fmt.Errorf("scanning catalog article: %w", err)
		}
		a.Author = author.String
		a.Year = year.String
		if a.Year == "" {
			a.Year = article.YearUnknown
		}
		a.Topic = topic.String
		a.Abstract = abstract.String
		a.DOI = doi.String
		a.Type = articleType.String
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SaveFullText caches extracted full text for an article.
func (db *DB) SaveFullText(articleID, url, content string) error {
	_, err := db.conn.Exec(
		`INSERT INTO article_fulltext (article_id, url, content, fetched_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(article_id) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at`,
		articleID, url, content,
	)
	if err != nil {
		return fmt.Errorf("saving full text: %w", err)
	}
	return nil
}

// GetFullText returns the cached full text, or "" when none is stored.
func (db *DB) GetFullText(articleID string) (string, error) {
	var content sql.NullString
	err := db.conn.QueryRow(
		"SELECT content FROM article_fulltext WHERE article_id = ?", articleID,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading full text: %w", err)
	}
	return content.String, nil
}

// Stats summarizes the database for the status command.
type Stats struct {
	CatalogArticles int
	CachedFullTexts int
}

// GetStats returns database statistics.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM catalog_articles").Scan(&stats.CatalogArticles); err != nil {
		return nil, fmt.Errorf("counting catalog articles: %w", err)
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM article_fulltext WHERE content IS NOT NULL AND content != ''").Scan(&stats.CachedFullTexts); err != nil {
		return nil, fmt.Errorf("counting full texts: %w", err)
	}
	return stats, nil
}
