package report

import (
	"fmt"
	"strings"

	"github.com/kpauljoseph/ankistats/pkg/models"
)

// lookupBaseURL is the dictionary every card's term links to. The term
// is appended raw; jisho accepts unencoded Japanese in the path.
const lookupBaseURL = "https://jisho.org/search/"

// CardListHTML renders one fragment per card, concatenated in input
// order. Field contents are embedded verbatim, with no HTML escaping
// and no URL encoding, so markup stored in a note reaches the page
// intact.
func CardListHTML(cards []models.Card) string {
	var b strings.Builder
	for _, card := range cards {
		writeCard(&b, card)
	}
	return b.String()
}

func writeCard(b *strings.Builder, card models.Card) {
	fmt.Fprintf(b, "<a href='%s%s' class='card-link'>", lookupBaseURL, card.Term())
	fmt.Fprintf(b, "<div class='card card-%s'>%s", card.State.CSSClass(), card.Term())
	b.WriteString("<div class='card-hover'>")
	fmt.Fprintf(b, "<div class='card-meaning'>%s; %s</div>", card.Reading(), card.Meaning())
	fmt.Fprintf(b, "reviews: %d<br/>", card.Reps)
	fmt.Fprintf(b, "lapses: %d<br/>", card.Lapses)
	b.WriteString("</div></div></a>\n")
}
