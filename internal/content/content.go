// Package content derives profile-specific explanatory text, key points
// and flashcards from an article's abstract. All generators are pure and
// deterministic; no real NLP, just sentence slicing and keyword matching.
package content

import (
	"fmt"
	"strings"

	"github.com/dcereceda/academisearch/internal/article"
)

// Profile selects how an article is explained to the reader.
type Profile string

const (
	ProfileStudent    Profile = "student"
	ProfileResearcher Profile = "researcher"
	ProfileManager    Profile = "manager"
)

// Profiles lists the closed set of supported profiles.
var Profiles = []Profile{ProfileStudent, ProfileResearcher, ProfileManager}

// ParseProfile normalizes a profile string. Unknown values are returned
// as-is; Explain falls back to the raw abstract for those.
func ParseProfile(s string) Profile {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Profiles {
		if p == known {
			return known
		}
	}
	return p
}

// explainers dispatches each profile to its pure renderer. Unknown
// profiles are handled by Explain itself.
var explainers = map[Profile]func(article.Article) string{
	ProfileStudent:    explainStudent,
	ProfileResearcher: explainResearcher,
	ProfileManager:    explainManager,
}

// Explain renders an article as markdown for the given profile. An
// unrecognized profile yields the raw abstract only.
func Explain(a article.Article, p Profile) string {
	if fn, ok := explainers[p]; ok {
		return fn(a)
	}
	return a.Abstract
}

func explainStudent(a article.Article) string {
	var b strings.Builder
	b.WriteString("#### 📖 Summary\n\n")
	b.WriteString(a.Abstract)
	b.WriteString("\n\n#### 🎯 Key Points\n\n")
	for _, point := range KeyPoints(a.Abstract) {
		fmt.Fprintf(&b, "- %s\n", point)
	}
	return b.String()
}

func explainResearcher(a article.Article) string {
	var b strings.Builder
	b.WriteString("#### 📊 Technical Summary\n\n")
	b.WriteString(a.Abstract)
	b.WriteString("\n\n#### 🔬 Research Details\n\n")
	fmt.Fprintf(&b, "**Article type:** %s\n\n", a.Type)
	fmt.Fprintf(&b, "**Relevance score:** %s\n\n", a.ScoreDisplay())
	b.WriteString("#### 📚 Metadata\n\n")
	fmt.Fprintf(&b, "**DOI:** %s\n\n", a.DOIDisplay())
	fmt.Fprintf(&b, "**Category:** %s\n", a.Topic)
	return b.String()
}

func explainManager(a article.Article) string {
	var b strings.Builder
	b.WriteString("#### 📈 Impact Metrics\n\n")
	fmt.Fprintf(&b, "**Relevance score:** %s\n\n", a.ScoreDisplay())
	fmt.Fprintf(&b, "**Category:** %s\n\n", a.Topic)
	b.WriteString("#### 🎯 Practical Applications\n\n")
	fmt.Fprintf(&b, "This article presents findings relevant to project planning in %s.\n\n", strings.ToLower(a.Topic))
	b.WriteString("#### 💡 Executive Summary\n\n")
	b.WriteString(a.Abstract)
	b.WriteString("\n\n#### 📊 Technical Data\n\n")
	fmt.Fprintf(&b, "**Type:** %s\n\n", a.Type)
	fmt.Fprintf(&b, "**Year:** %s\n", a.Year)
	return b.String()
}

// maxKeyPoints caps the key-point list for the student view.
const maxKeyPoints = 3

// KeyPoints slices the abstract into up to three leading sentences,
// appending a period to any fragment that lost its own.
func KeyPoints(abstract string) []string {
	sentences := strings.Split(abstract, ". ")
	if len(sentences) > maxKeyPoints {
		sentences = sentences[:maxKeyPoints]
	}

	points := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.HasSuffix(s, ".") {
			s += "."
		}
		points = append(points, s)
	}
	return points
}
