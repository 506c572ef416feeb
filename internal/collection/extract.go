package collection

import (
	"strings"

	"github.com/kpauljoseph/ankistats/pkg/models"
)

// FieldSep separates the fields packed into a note's flds column. Anki
// joins every field of a note into one TEXT value with the ASCII unit
// separator.
const FieldSep = "\x1f"

// ExtractCard normalizes one raw row into a Card: the packed fields are
// split on FieldSep and kept verbatim, and the queue code is classified
// into a learning state. Rows with an unknown queue code or too few
// fields are errors, never skipped.
func ExtractCard(rec RawRecord) (models.Card, error) {
	state, err := models.StateFromQueue(rec.Queue)
	if err != nil {
		return models.Card{}, err
	}
	return models.NewCard(strings.Split(rec.Fields, FieldSep), state, rec.Reps, rec.Lapses)
}

// ExtractCards converts a deck's raw rows in order, stopping at the
// first invalid row. One undecodable card means the deck's statistics
// would be wrong, so there is no partial result.
func ExtractCards(records []RawRecord) ([]models.Card, error) {
	cards := make([]models.Card, 0, len(records))
	for _, rec := range records {
		card, err := ExtractCard(rec)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
