package models

import (
	"errors"
	"fmt"
)

// LearningState is the scheduling bucket a card currently sits in,
// derived from the queue code stored in the collection.
type LearningState int

const (
	StateNew LearningState = iota
	StateLearning
	StateReview
)

// Queue codes as Anki persists them. Codes 1 and 3 are both learning
// queues (initial learning and day-relearning).
const (
	QueueNew        = 0
	QueueLearning   = 1
	QueueReview     = 2
	QueueRelearning = 3
)

var (
	// ErrUnknownQueueCode reports a queue code outside the mapping above.
	// Suspended and buried cards carry negative codes and are not part of
	// a normal study deck, so any such row means the wrong deck or a
	// schema change.
	ErrUnknownQueueCode = errors.New("unknown queue code")

	// ErrNotEnoughFields reports a note without the three fixed-role
	// fields a report card needs.
	ErrNotEnoughFields = errors.New("note has fewer than 3 fields")
)

// StateFromQueue maps a raw queue code to its learning state.
func StateFromQueue(code int) (LearningState, error) {
	switch code {
	case QueueNew:
		return StateNew, nil
	case QueueLearning, QueueRelearning:
		return StateLearning, nil
	case QueueReview:
		return StateReview, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownQueueCode, code)
	}
}

// CSSClass returns the state's name as used in the report's card-* CSS
// classes.
func (s LearningState) CSSClass() string {
	switch s {
	case StateLearning:
		return "learning"
	case StateReview:
		return "review"
	default:
		return "new"
	}
}

func (s LearningState) String() string {
	return s.CSSClass()
}

// Card is one flashcard of a deck, normalized for reporting. Fields holds
// the note's fields in stored order, unescaped and untrimmed.
type Card struct {
	Fields []string
	State  LearningState
	Reps   int
	Lapses int
}

// MinFields is how many note fields a card must carry: term, reading
// and meaning.
const MinFields = 3

// NewCard builds a Card after checking the note carries the fixed-role
// fields. Extra fields beyond the first three are kept but unused.
func NewCard(fields []string, state LearningState, reps, lapses int) (Card, error) {
	if len(fields) < MinFields {
		return Card{}, fmt.Errorf("%w: got %d", ErrNotEnoughFields, len(fields))
	}
	return Card{
		Fields: fields,
		State:  state,
		Reps:   reps,
		Lapses: lapses,
	}, nil
}

// Term is the expression being studied, typically Japanese.
func (c Card) Term() string { return c.Fields[0] }

// Reading is the kana reading of the term.
func (c Card) Reading() string { return c.Fields[1] }

// Meaning is the English gloss of the term.
func (c Card) Meaning() string { return c.Fields[2] }
