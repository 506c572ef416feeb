package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kpauljoseph/ankistats/internal/stats"
)

// Placeholder names a report template can use.
const (
	TokenCardCount   = "n_cards"
	TokenLearned     = "n_learned"
	TokenPercent     = "learned_percentage_pretty"
	TokenCards       = "cards"
	TokenGeneratedAt = "now"
)

var numberPrinter = message.NewPrinter(language.English)

// BuildTokens assembles the substitution values for a deck report.
// Counts are grouped with thousands separators and the learned share is
// rounded to two decimals.
func BuildTokens(deck stats.DeckStats, cardsHTML string, generatedAt time.Time) TokenMap {
	return TokenMap{
		TokenCardCount:   numberPrinter.Sprintf("%d", deck.Total),
		TokenLearned:     numberPrinter.Sprintf("%d", deck.Learned),
		TokenPercent:     fmt.Sprintf("%.2f", deck.LearnedPercent()),
		TokenCards:       cardsHTML,
		TokenGeneratedAt: generatedAt.Format(time.RFC3339),
	}
}
