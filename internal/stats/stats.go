package stats

import (
	"fmt"

	"github.com/kpauljoseph/ankistats/pkg/models"
)

// DeckStats summarizes learning progress over one deck.
type DeckStats struct {
	Total   int
	Learned int
}

// Collect folds a deck's cards into aggregate counts. A card counts as
// learned only once it has graduated to the review queue; new and
// learning cards contribute to the total alone.
func Collect(cards []models.Card) DeckStats {
	s := DeckStats{Total: len(cards)}
	for _, card := range cards {
		if card.State == models.StateReview {
			s.Learned++
		}
	}
	return s
}

// LearnedPercent is the learned share in percent, between 0 and 100.
// An empty deck reports 0: nothing is learned rather than everything.
func (s DeckStats) LearnedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Learned) / float64(s.Total) * 100
}

// Summary is the one-line console form of the deck's progress.
func (s DeckStats) Summary() string {
	return fmt.Sprintf("learned %d/%d (%.2f%%)", s.Learned, s.Total, s.LearnedPercent())
}
