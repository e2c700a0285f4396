package urgency

import (
	"strings"

	"github.com/secmon-lab/cuon/pkg/domain/model"
)

// Scorer counts urgency cues in free-text descriptions. It is a pure
// function of the text and the lexicon: no I/O, deterministic.
type Scorer struct {
	urgent    []string
	nonUrgent []string
}

// NewScorer creates a scorer over the given lexicon. Keywords are matched as
// case-folded substrings, not word-boundary tokens, so a cue counts wherever
// it appears in the text.
func NewScorer(lexicon model.Lexicon) *Scorer {
	return &Scorer{
		urgent:    foldAll(lexicon.Urgent),
		nonUrgent: foldAll(lexicon.NonUrgent),
	}
}

// Score returns the number of urgent and non-urgent cues present in the
// text. Each keyword contributes at most once.
func (s *Scorer) Score(text string) (urgent, nonUrgent int) {
	folded := strings.ToLower(text)
	return countMatches(folded, s.urgent), countMatches(folded, s.nonUrgent)
}

func countMatches(folded string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, kw) {
			n++
		}
	}
	return n
}

func foldAll(keywords []string) []string {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		folded = append(folded, strings.ToLower(strings.TrimSpace(kw)))
	}
	return folded
}
