package collection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kpauljoseph/ankistats/pkg/logger"

	_ "modernc.org/sqlite"
)

// ErrDeckNotFound reports a deck name with no entry in the registry.
var ErrDeckNotFound = errors.New("deck not found")

// Store is a read-only handle to an Anki collection database. Anki owns
// the file, so the handle never writes and never takes a write lock.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens the collection at path in read-only mode. The file must
// already exist; a stats run never creates or migrates a collection.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	// One connection is plenty for a single-pass report and keeps the
	// read lock footprint on Anki's database minimal.
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; ping so a missing or unreadable file fails here
	// instead of on the first query.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open collection %s: %w", path, err)
	}

	log.Debug("Opened collection %s read-only", path)

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RawRecord is one undecoded row of the cards/notes join: the note's
// packed fields plus the card's scheduling columns.
type RawRecord struct {
	Fields string
	Queue  int
	Reps   int
	Lapses int
}

// DeckCards returns the raw card rows of one deck, ordered by note id so
// a report always lists cards in creation order. The deck id is bound
// as an opaque parameter; an unknown deck yields no rows rather than an
// error.
func (s *Store) DeckCards(ctx context.Context, deckID string) ([]RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT notes.flds, cards.queue, cards.reps, cards.lapses
		FROM cards
		INNER JOIN notes ON notes.id = cards.nid
		WHERE cards.did = ?
		ORDER BY notes.id
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("query deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var rec RawRecord
		if err := rows.Scan(&rec.Fields, &rec.Queue, &rec.Reps, &rec.Lapses); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deck %s: %w", deckID, err)
	}

	s.log.Debug("Deck %s: %d card rows", deckID, len(records))

	return records, nil
}

// DeckSummary is the card count of one deck.
type DeckSummary struct {
	DeckID int64
	Cards  int
}

// DeckSummaries returns the per-deck card counts of the whole
// collection, ordered by deck id. Decks without cards do not appear.
func (s *Store) DeckSummaries(ctx context.Context) ([]DeckSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT did, COUNT(*)
		FROM cards
		GROUP BY did
		ORDER BY did
	`)
	if err != nil {
		return nil, fmt.Errorf("query deck summaries: %w", err)
	}
	defer rows.Close()

	var summaries []DeckSummary
	for rows.Next() {
		var sum DeckSummary
		if err := rows.Scan(&sum.DeckID, &sum.Cards); err != nil {
			return nil, fmt.Errorf("scan deck summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deck summaries: %w", err)
	}

	return summaries, nil
}

// DeckNames reads the deck registry that legacy collections keep as a
// JSON blob in the col table. Newer schema versions store decks in
// their own table and leave the blob empty; those collections yield an
// empty map and callers fall back to bare deck ids.
func (s *Store) DeckNames(ctx context.Context) (map[int64]string, error) {
	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT decks FROM col`).Scan(&raw); err != nil {
		return nil, fmt.Errorf("read deck registry: %w", err)
	}

	names := make(map[int64]string)
	if raw == "" {
		return names, nil
	}

	var registry map[string]struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &registry); err != nil {
		s.log.Debug("Deck registry is not legacy JSON: %v", err)
		return names, nil
	}

	for id, deck := range registry {
		deckID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		names[deckID] = deck.Name
	}

	return names, nil
}

// ResolveDeck translates a deck name into its id using the registry.
// Matching is exact: subdeck names include every ancestor joined with
// Anki's "::" separator.
func (s *Store) ResolveDeck(ctx context.Context, name string) (int64, error) {
	names, err := s.DeckNames(ctx)
	if err != nil {
		return 0, err
	}
	for id, deckName := range names {
		if deckName == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrDeckNotFound, name)
}
