package content

import (
	"fmt"
	"strings"

	"github.com/dcereceda/academisearch/internal/article"
)

// Flashcard is an ephemeral question/answer pair, regenerated per
// article view.
type Flashcard struct {
	Question string
	Answer   string
}

// maxConceptCards caps the keyword-derived cards; two fixed cards are
// always appended on top of those.
const maxConceptCards = 5

// vocabulary is the fixed set of domain keywords scanned for in
// abstracts. First occurrences become concept cards.
var vocabulary = []string{
	"microgravity", "cell", "stem", "neural", "protein", "gene",
	"expression", "cytoskeleton", "morphology", "space", "flight",
	"analysis", "study", "effect", "system",
}

func inVocabulary(word string) bool {
	for _, v := range vocabulary {
		if v == word {
			return true
		}
	}
	return false
}

// extractConcepts returns the distinct vocabulary words appearing in the
// text, in order of first occurrence, capped at maxConceptCards.
// Tokens are case-folded and stripped of punctuation before matching.
func extractConcepts(text string) []string {
	var concepts []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		clean := strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
				return r
			}
			return -1
		}, word)

		if clean == "" || !inVocabulary(clean) {
			continue
		}
		if containsString(concepts, clean) {
			continue
		}
		concepts = append(concepts, clean)
		if len(concepts) == maxConceptCards {
			break
		}
	}
	return concepts
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Flashcards builds the study deck for an article: one templated card per
// matched concept, then the topic card and the type/relevance card.
// Deterministic for a given abstract.
func Flashcards(a article.Article) []Flashcard {
	concepts := extractConcepts(a.Abstract)

	cards := make([]Flashcard, 0, len(concepts)+2)
	for _, concept := range concepts {
		cards = append(cards, Flashcard{
			Question: fmt.Sprintf("What can you say about %s?", concept),
			Answer: fmt.Sprintf("%s is an important concept in this study on %q. It relates to the topic of %s.",
				concept, a.Title, a.Topic),
		})
	}

	cards = append(cards, Flashcard{
		Question: "What is the main topic of this article?",
		Answer:   fmt.Sprintf("The main topic is %s, specifically %q.", a.Topic, a.Title),
	})
	cards = append(cards, Flashcard{
		Question: "What kind of research is this article?",
		Answer:   fmt.Sprintf("It is a %s with a relevance score of %s.", a.Type, a.ScoreDisplay()),
	})
	return cards
}

// StudySession walks an ordered deck with a cursor and a face-up flag.
// Discarded when the study view closes; only completion is recorded.
type StudySession struct {
	cards   []Flashcard
	index   int
	flipped bool
}

// NewStudySession starts a session at the first card, face down.
func NewStudySession(cards []Flashcard) *StudySession {
	return &StudySession{cards: cards}
}

// Card returns the current card.
func (s *StudySession) Card() Flashcard {
	if len(s.cards) == 0 {
		return Flashcard{}
	}
	return s.cards[s.index]
}

// Flipped reports whether the answer side is showing.
func (s *StudySession) Flipped() bool {
	return s.flipped
}

// Flip toggles between question and answer.
func (s *StudySession) Flip() {
	s.flipped = !s.flipped
}

// Next advances to the following card, face down. Returns false at the
// end of the deck.
func (s *StudySession) Next() bool {
	if s.index >= len(s.cards)-1 {
		return false
	}
	s.index++
	s.flipped = false
	return true
}

// Prev steps back one card, face down. Returns false at the start.
func (s *StudySession) Prev() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.flipped = false
	return true
}

// Position returns the 1-based cursor and deck size.
func (s *StudySession) Position() (current, total int) {
	return s.index + 1, len(s.cards)
}

// Counter renders the position label shown under the card.
func (s *StudySession) Counter() string {
	current, total := s.Position()
	return fmt.Sprintf("%d / %d", current, total)
}
