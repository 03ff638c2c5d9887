// Package server is the web presentation layer: search page, article
// reader, flashcard study and the progress dashboard. All state lives in
// the session; handlers read request values and render.
package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dcereceda/academisearch/internal/article"
	"github.com/dcereceda/academisearch/internal/content"
	"github.com/dcereceda/academisearch/internal/filter"
	"github.com/dcereceda/academisearch/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// TextReader supplies full article text for the reader view.
type TextReader interface {
	FullText(ctx context.Context, a article.Article) (string, error)
}

// Server is the HTTP server for the search UI.
type Server struct {
	sess   *session.Session
	reader TextReader
	pages  map[string]*template.Template
	mux    *http.ServeMux
}

// New creates a new Server. reader may be nil; the article view then
// shows the abstract only.
func New(sess *session.Session, reader TextReader) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the
	// clone so every page gets its own content/title blocks.
	pageNames := []string{"index.html", "article.html", "progress.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{sess: sess, reader: reader, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/article/", s.handleArticle)
	s.mux.HandleFunc("/profile", s.handleProfile)
	s.mux.HandleFunc("/progress", s.handleProgress)
}

// searchView is the data behind the index page.
type searchView struct {
	Query     string
	Articles  []article.Article
	Count     int
	Searched  bool
	Connected bool
	Degraded  bool
	Topics    []string
	Types     []string
	Criteria  filter.Criteria
	MinScores []float64
}

// minScoreOptions are the values offered by the score filter control.
var minScoreOptions = []float64{0.5, 0.6, 0.7, 0.8, 0.9}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "index.html", searchView{
		Connected: s.sess.Connected(),
		MinScores: minScoreOptions,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	criteria := criteriaFromRequest(r)
	s.sess.SetCriteria(criteria)

	// Re-running the same query only re-filters the loaded set.
	if query != s.sess.LastQuery() {
		s.sess.Search(r.Context(), query)
	}

	articles := s.sess.Filtered()
	loaded := s.sess.Articles()
	s.render(w, "index.html", searchView{
		Query:     query,
		Articles:  articles,
		Count:     len(articles),
		Searched:  true,
		Connected: s.sess.Connected(),
		Degraded:  s.sess.Degraded(),
		Topics:    filter.Topics(loaded),
		Types:     filter.Types(loaded),
		Criteria:  criteria,
		MinScores: minScoreOptions,
	})
}

func criteriaFromRequest(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	minScore, _ := strconv.ParseFloat(q.Get("min_score"), 64)
	return filter.Criteria{
		Text:     strings.TrimSpace(q.Get("refine")),
		Topic:    q.Get("topic"),
		MinScore: minScore,
		Type:     q.Get("type"),
	}
}

// articleView is the data behind the article page.
type articleView struct {
	Article    article.Article
	Profile    content.Profile
	Profiles   []content.Profile
	Body       template.HTML
	FullText   string
	Flashcards bool
	Card       content.Flashcard
	Counter    string
	Flipped    bool
	CardIndex  int
	HasPrev    bool
	HasNext    bool
	Query      string
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/article/")
	if rest == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// POST /article/{id}/study completes a flashcard session.
	if id, ok := strings.CutSuffix(rest, "/study"); ok && r.Method == http.MethodPost {
		s.sess.CompleteStudy()
		http.Redirect(w, r, "/article/"+id, http.StatusFound)
		return
	}

	a, ok := s.sess.OpenArticle(rest)
	if !ok {
		http.NotFound(w, r)
		return
	}

	profile := s.sess.Profile()
	body, err := renderMarkdown(content.Explain(a, profile))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view := articleView{
		Article:  a,
		Profile:  profile,
		Profiles: content.Profiles,
		Body:     body,
		Query:    s.sess.LastQuery(),
	}

	if s.reader != nil {
		if text, err := s.reader.FullText(r.Context(), a); err == nil {
			view.FullText = text
		} else {
			log.Printf("Reader view unavailable for %s: %v", a.ID, err)
		}
	}

	// Flashcards are a student feature.
	if profile == content.ProfileStudent {
		view.Flashcards = true
		deck := content.Flashcards(a)
		study := content.NewStudySession(deck)

		cardIndex, _ := strconv.Atoi(r.URL.Query().Get("card"))
		for i := 0; i < cardIndex; i++ {
			if !study.Next() {
				break
			}
		}
		if r.URL.Query().Get("flip") == "1" {
			study.Flip()
		}

		current, total := study.Position()
		view.Card = study.Card()
		view.Counter = study.Counter()
		view.Flipped = study.Flipped()
		view.CardIndex = current - 1
		view.HasPrev = current > 1
		view.HasNext = current < total
	}

	s.render(w, "article.html", view)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.sess.SetProfile(content.ParseProfile(r.FormValue("profile")))

	back := r.FormValue("back")
	if back == "" || !strings.HasPrefix(back, "/") {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusFound)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.render(w, "progress.html", s.sess.Progress())
}

// render executes a page template with the pending notifications mixed in.
func (s *Server) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	payload := map[string]any{
		"Data":          data,
		"Notifications": s.sess.DrainNotifications(),
		"Connected":     s.sess.Connected(),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", payload); err != nil {
		log.Printf("Template error rendering %s: %v", page, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func renderMarkdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
