package article

import "fmt"

// YearUnknown is rendered when the remote service has no publication year.
// An absent year is not the same as year zero.
const YearUnknown = "n.d."

// Article is the normalized result shape shared by every component.
// A fresh set is created on each search; nothing mutates articles in place.
type Article struct {
	ID       string
	Title    string
	Author   string
	Year     string // YearUnknown when the source has none
	Topic    string
	Abstract string
	URL      string
	DOI      string // optional
	Score    float64
	Type     string
}

// ScorePercent returns the relevance score as a whole percentage.
func (a Article) ScorePercent() int {
	return int(a.Score*100 + 0.5)
}

// ScoreDisplay returns the relevance score formatted as "75.7%".
func (a Article) ScoreDisplay() string {
	return fmt.Sprintf("%.1f%%", a.Score*100)
}

// DOIDisplay returns the DOI or a placeholder when absent.
func (a Article) DOIDisplay() string {
	if a.DOI == "" {
		return "N/A"
	}
	return a.DOI
}
