package acceptance_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/ankistats/internal/collection"
	"github.com/kpauljoseph/ankistats/internal/report"
	"github.com/kpauljoseph/ankistats/internal/stats"
	"github.com/kpauljoseph/ankistats/pkg/logger"
	"github.com/kpauljoseph/ankistats/pkg/models"

	_ "modernc.org/sqlite"
)

const collectionSchema = `
CREATE TABLE col (
	id INTEGER PRIMARY KEY,
	decks TEXT NOT NULL DEFAULT ''
);
CREATE TABLE notes (
	id INTEGER PRIMARY KEY,
	flds TEXT NOT NULL
);
CREATE TABLE cards (
	id INTEGER PRIMARY KEY,
	nid INTEGER NOT NULL,
	did INTEGER NOT NULL,
	queue INTEGER NOT NULL,
	reps INTEGER NOT NULL DEFAULT 0,
	lapses INTEGER NOT NULL DEFAULT 0
);
`

const reportTemplate = `<html><body>
<p id="summary">{n_learned}/{n_cards} = {learned_percentage_pretty}%</p>
<div id="cards">
{cards}</div>
<span id="generated">{now}</span>
</body></html>`

type fixtureCard struct {
	flds   string
	queue  int
	reps   int
	lapses int
}

func seedDeck(dbPath string, deckID int64, cards []fixtureCard) {
	db, err := sql.Open("sqlite", dbPath)
	Expect(err).NotTo(HaveOccurred())
	defer db.Close()

	_, err = db.Exec(collectionSchema)
	Expect(err).NotTo(HaveOccurred())
	_, err = db.Exec(`INSERT INTO col (id, decks) VALUES (1, '')`)
	Expect(err).NotTo(HaveOccurred())

	tx, err := db.Begin()
	Expect(err).NotTo(HaveOccurred())
	for i, card := range cards {
		noteID := int64(i + 1)
		_, err = tx.Exec(`INSERT INTO notes (id, flds) VALUES (?, ?)`, noteID, card.flds)
		Expect(err).NotTo(HaveOccurred())
		_, err = tx.Exec(
			`INSERT INTO cards (id, nid, did, queue, reps, lapses) VALUES (?, ?, ?, ?, ?, ?)`,
			noteID, noteID, deckID, card.queue, card.reps, card.lapses,
		)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(tx.Commit()).To(Succeed())
}

// generateReport runs the whole pipeline the way the ankistats command
// does: read the deck, extract, aggregate, render, write. The timestamp
// is a parameter so golden comparisons stay deterministic.
func generateReport(dbPath, deckID, templatePath, outputPath string, generatedAt time.Time, log *logger.Logger) (stats.DeckStats, error) {
	store, err := collection.Open(dbPath, log)
	if err != nil {
		return stats.DeckStats{}, err
	}
	defer store.Close()

	records, err := store.DeckCards(context.Background(), deckID)
	if err != nil {
		return stats.DeckStats{}, err
	}

	cards, err := collection.ExtractCards(records)
	if err != nil {
		return stats.DeckStats{}, err
	}

	deckStats := stats.Collect(cards)

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return deckStats, err
	}

	tokens := report.BuildTokens(deckStats, report.CardListHTML(cards), generatedAt)
	rendered := report.RenderTemplate(string(tmpl), tokens)

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return deckStats, err
	}
	return deckStats, nil
}

var _ = Describe("AnkiStats End-to-End", Ordered, func() {
	var (
		tempDir      string
		dbPath       string
		templatePath string
		outputPath   string
		testLogger   *logger.Logger
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("/tmp", "ankistats-acceptance-*")
		Expect(err).NotTo(HaveOccurred())

		dbPath = filepath.Join(tempDir, "collection.anki2")
		templatePath = filepath.Join(tempDir, "template.html")
		outputPath = filepath.Join(tempDir, "report.html")

		Expect(os.WriteFile(templatePath, []byte(reportTemplate), 0644)).To(Succeed())

		testLogger = logger.New(
			logger.WithOutput(GinkgoWriter),
			logger.WithPrefix("[test] "),
		)
	})

	AfterEach(func() {
		err := os.RemoveAll(tempDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("Deck Report Generation", Label("happy-path"), func() {
		It("should report a mixed deck and render every card", func() {
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "日本\x1fにほん\x1fJapan", queue: models.QueueReview, reps: 15, lapses: 2},
				{flds: "猫\x1fねこ\x1fcat", queue: models.QueueNew},
			})

			By("Running the report pipeline for the deck")
			deckStats, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).NotTo(HaveOccurred())

			By("Verifying the aggregate counts")
			Expect(deckStats.Total).To(Equal(2))
			Expect(deckStats.Learned).To(Equal(1))
			Expect(deckStats.Summary()).To(Equal("learned 1/2 (50.00%)"))

			By("Verifying the rendered report")
			Expect(outputPath).To(BeAnExistingFile())
			html, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			out := string(html)

			Expect(out).To(ContainSubstring("1/2 = 50.00%"))
			Expect(out).To(ContainSubstring("<div class='card card-review'>日本"))
			Expect(out).To(ContainSubstring("<div class='card card-new'>猫"))
			Expect(out).To(ContainSubstring("<a href='https://jisho.org/search/日本' class='card-link'>"))
			Expect(out).To(ContainSubstring("にほん; Japan"))
			Expect(out).To(ContainSubstring("reviews: 15<br/>"))
			Expect(out).To(ContainSubstring("lapses: 2<br/>"))
			Expect(out).NotTo(ContainSubstring("{cards}"))
			Expect(out).NotTo(ContainSubstring("{n_cards}"))
		})

		It("should list cards in note creation order", func() {
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "一\x1fいち\x1fone", queue: models.QueueNew},
				{flds: "二\x1fに\x1ftwo", queue: models.QueueLearning},
				{flds: "三\x1fさん\x1fthree", queue: models.QueueReview, reps: 7},
			})

			_, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).NotTo(HaveOccurred())

			html, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			out := string(html)

			Expect(strings.Index(out, "一")).To(BeNumerically("<", strings.Index(out, "二")))
			Expect(strings.Index(out, "二")).To(BeNumerically("<", strings.Index(out, "三")))
		})

		It("should group large counts with thousands separators", func() {
			cards := make([]fixtureCard, 0, 2300)
			for i := 0; i < 2300; i++ {
				queue := models.QueueNew
				if i < 1500 {
					queue = models.QueueReview
				}
				cards = append(cards, fixtureCard{
					flds:  fmt.Sprintf("語%d\x1fご%d\x1fword %d", i, i, i),
					queue: queue,
				})
			}
			seedDeck(dbPath, 1, cards)

			deckStats, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).NotTo(HaveOccurred())
			Expect(deckStats.Summary()).To(Equal("learned 1500/2300 (65.22%)"))

			html, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(html)).To(ContainSubstring("1,500/2,300 = 65.22%"))
		})
	})

	Context("Edge Cases", func() {
		It("should render an empty report for a deck without cards", func() {
			seedDeck(dbPath, 1, nil)

			deckStats, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).NotTo(HaveOccurred())
			Expect(deckStats.Summary()).To(Equal("learned 0/0 (0.00%)"))

			html, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			out := string(html)

			Expect(out).To(ContainSubstring("0/0 = 0.00%"))
			Expect(out).To(ContainSubstring("<div id=\"cards\">\n</div>"))
		})

		It("should leave unresolved placeholders literal", func() {
			Expect(os.WriteFile(templatePath, []byte("<p>{n_cards}</p><p>{mystery}</p>"), 0644)).To(Succeed())
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "犬\x1fいぬ\x1fdog", queue: models.QueueNew},
			})

			_, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).NotTo(HaveOccurred())

			html, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(html)).To(Equal("<p>1</p><p>{mystery}</p>"))
		})
	})

	Context("Failure Modes", func() {
		It("should abort without output on an unknown queue code", func() {
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "日本\x1fにほん\x1fJapan", queue: models.QueueReview},
				{flds: "壊\x1fかい\x1fbroken", queue: 9},
			})

			_, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).To(MatchError(models.ErrUnknownQueueCode))
			Expect(outputPath).NotTo(BeAnExistingFile())
		})

		It("should abort without output on a malformed note", func() {
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "前\x1fまえ", queue: models.QueueNew},
			})

			_, err := generateReport(dbPath, "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).To(MatchError(models.ErrNotEnoughFields))
			Expect(outputPath).NotTo(BeAnExistingFile())
		})

		It("should fail when the collection does not exist", func() {
			_, err := generateReport(filepath.Join(tempDir, "missing.anki2"), "1", templatePath, outputPath, time.Now(), testLogger)
			Expect(err).To(HaveOccurred())
			Expect(outputPath).NotTo(BeAnExistingFile())
		})

		It("should fail when the template is missing", func() {
			seedDeck(dbPath, 1, []fixtureCard{
				{flds: "犬\x1fいぬ\x1fdog", queue: models.QueueNew},
			})

			_, err := generateReport(dbPath, "1", filepath.Join(tempDir, "missing.html"), outputPath, time.Now(), testLogger)
			Expect(err).To(HaveOccurred())
			Expect(outputPath).NotTo(BeAnExistingFile())
		})
	})
})
