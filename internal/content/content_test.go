package content

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dcereceda/academisearch/internal/article"
)

var testArticle = article.Article{
	ID:       "a1",
	Title:    "Microgravity and Gene Expression",
	Author:   "Doe, Jane",
	Year:     "2020",
	Topic:    "Cell Biology",
	Abstract: "Microgravity affects cell morphology. Gene expression changes were observed. The study used clinorotation. Further work is needed.",
	DOI:      "10.1/abc",
	Score:    0.75,
	Type:     "research-article",
}

func TestKeyPointsTakesFirstThreeSentences(t *testing.T) {
	got := KeyPoints("A. B. C. D.")
	want := []string{"A.", "B.", "C."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestKeyPointsAppendsMissingPeriod(t *testing.T) {
	got := KeyPoints("First sentence. Second without trailing period")
	want := []string{"First sentence.", "Second without trailing period."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestKeyPointsShortAbstract(t *testing.T) {
	got := KeyPoints("Only one sentence.")
	if len(got) != 1 || got[0] != "Only one sentence." {
		t.Errorf("unexpected key points: %v", got)
	}
}

func TestParseProfile(t *testing.T) {
	if ParseProfile(" Student ") != ProfileStudent {
		t.Error("expected normalization to student")
	}
	if ParseProfile("RESEARCHER") != ProfileResearcher {
		t.Error("expected normalization to researcher")
	}
	if p := ParseProfile("alien"); p != Profile("alien") {
		t.Errorf("expected unknown profile passed through, got %q", p)
	}
}

func TestExplainPerProfile(t *testing.T) {
	student := Explain(testArticle, ProfileStudent)
	if !strings.Contains(student, "Key Points") {
		t.Error("student view missing key points section")
	}
	if !strings.Contains(student, "Microgravity affects cell morphology.") {
		t.Error("student view missing first key point")
	}

	researcher := Explain(testArticle, ProfileResearcher)
	if !strings.Contains(researcher, "10.1/abc") {
		t.Error("researcher view missing DOI")
	}
	if !strings.Contains(researcher, "research-article") {
		t.Error("researcher view missing article type")
	}

	manager := Explain(testArticle, ProfileManager)
	if !strings.Contains(manager, "Executive Summary") {
		t.Error("manager view missing executive summary")
	}
	if !strings.Contains(manager, "cell biology") {
		t.Error("manager view should lowercase the topic in applications text")
	}
}

func TestExplainUnknownProfileFallsBackToAbstract(t *testing.T) {
	got := Explain(testArticle, Profile("alien"))
	if got != testArticle.Abstract {
		t.Errorf("expected raw abstract, got %q", got)
	}
}

func TestExplainIsDeterministic(t *testing.T) {
	for _, p := range Profiles {
		if Explain(testArticle, p) != Explain(testArticle, p) {
			t.Errorf("profile %s: output not deterministic", p)
		}
	}
}

func TestFlashcardsConceptsPlusTwoFixed(t *testing.T) {
	cards := Flashcards(testArticle)
	// Abstract matches microgravity, cell, morphology, gene, expression
	// before the cap; "study" comes too late.
	if len(cards) != 7 {
		t.Fatalf("expected 5 concept cards + 2 fixed, got %d", len(cards))
	}
	if !strings.Contains(cards[0].Question, "microgravity") {
		t.Errorf("expected first concept card about 'microgravity', got %q", cards[0].Question)
	}

	topicCard := cards[len(cards)-2]
	if !strings.Contains(topicCard.Answer, "Cell Biology") {
		t.Errorf("topic card missing topic: %q", topicCard.Answer)
	}
	typeCard := cards[len(cards)-1]
	if !strings.Contains(typeCard.Answer, "research-article") || !strings.Contains(typeCard.Answer, "75.0%") {
		t.Errorf("type card missing type or score: %q", typeCard.Answer)
	}
}

func TestFlashcardsNoMatchesStillHasFixedCards(t *testing.T) {
	a := testArticle
	a.Abstract = "Nothing from the fixed lexicon appears here."
	cards := Flashcards(a)
	if len(cards) != 2 {
		t.Fatalf("expected only the 2 fixed cards, got %d", len(cards))
	}
}

func TestFlashcardsDedupAndCap(t *testing.T) {
	a := testArticle
	a.Abstract = strings.Repeat("cell gene protein neural space flight study ", 3)
	cards := Flashcards(a)
	// Seven distinct vocabulary words occur but concept cards cap at 5.
	if len(cards) != 7 {
		t.Fatalf("expected 5 concept cards + 2 fixed, got %d", len(cards))
	}
}

func TestFlashcardsPunctuationStripped(t *testing.T) {
	a := testArticle
	a.Abstract = "Effects of (microgravity). A gene, a protein; done."
	cards := Flashcards(a)
	if len(cards) != 5 { // microgravity, gene, protein + 2 fixed
		t.Fatalf("expected 3 concept cards + 2 fixed, got %d", len(cards))
	}
}

func TestStudySessionNavigation(t *testing.T) {
	cards := []Flashcard{{Question: "q1"}, {Question: "q2"}, {Question: "q3"}}
	s := NewStudySession(cards)

	if s.Counter() != "1 / 3" {
		t.Errorf("expected '1 / 3', got %q", s.Counter())
	}
	if s.Prev() {
		t.Error("expected Prev to fail at start")
	}

	s.Flip()
	if !s.Flipped() {
		t.Error("expected card flipped")
	}

	if !s.Next() {
		t.Fatal("expected Next to advance")
	}
	if s.Flipped() {
		t.Error("expected new card face down")
	}
	if s.Card().Question != "q2" {
		t.Errorf("expected q2, got %q", s.Card().Question)
	}

	s.Next()
	if s.Next() {
		t.Error("expected Next to fail at end")
	}
	if s.Counter() != "3 / 3" {
		t.Errorf("expected '3 / 3', got %q", s.Counter())
	}
}
