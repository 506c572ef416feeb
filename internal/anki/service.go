package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/kpauljoseph/ankistats/pkg/logger"
	"github.com/kpauljoseph/ankistats/pkg/models"
)

const (
	DefaultConnectURL = "http://localhost:8765"
	ConnectVersion    = 6
	MaxRetries        = 3
	RetryDelay        = 500 * time.Millisecond
)

// Service reads deck contents from a running Anki instance through the
// AnkiConnect add-on, as an alternative to opening the collection file
// directly. It never writes to the collection.
type Service struct {
	connectURL string
	client     *http.Client
	log        *logger.Logger
}

type Option func(*Service)

// WithURL points the service at a non-default AnkiConnect endpoint.
func WithURL(url string) Option {
	return func(s *Service) {
		s.connectURL = url
	}
}

func NewService(log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		connectURL: DefaultConnectURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type connectRequest struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params"`
}

type cardInfo struct {
	CardID int64                `json:"cardId"`
	Note   int64                `json:"note"`
	Queue  int                  `json:"queue"`
	Reps   int                  `json:"reps"`
	Lapses int                  `json:"lapses"`
	Fields map[string]fieldInfo `json:"fields"`
}

type fieldInfo struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

func (s *Service) CheckConnection(ctx context.Context) error {
	request := connectRequest{
		Action:  "version",
		Version: ConnectVersion,
		Params:  map[string]interface{}{},
	}

	if _, err := s.sendRequest(ctx, request); err != nil {
		s.log.Info("Error sending request to Anki: %v", err)
		return fmt.Errorf("could not connect to Anki. Please ensure:\n" +
			"1. Anki is running https://apps.ankiweb.net/#download\n" +
			"2. AnkiConnect add-on is installed (code: 2055492159) https://ankiweb.net/shared/info/2055492159\n" +
			"3. Anki has been restarted after installing AnkiConnect")
	}

	return nil
}

// DeckCards fetches every card of the named deck and returns them in
// note creation order, the same order a direct collection read yields.
func (s *Service) DeckCards(ctx context.Context, deckName string) ([]models.Card, error) {
	findRequest := connectRequest{
		Action:  "findCards",
		Version: ConnectVersion,
		Params: map[string]interface{}{
			"query": fmt.Sprintf("deck:%q", deckName),
		},
	}

	result, err := s.sendRequest(ctx, findRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}

	var cardIDs []int64
	if err := json.Unmarshal(result, &cardIDs); err != nil {
		return nil, fmt.Errorf("failed to parse card IDs: %w", err)
	}

	s.log.Debug("AnkiConnect found %d cards in deck %s", len(cardIDs), deckName)
	if len(cardIDs) == 0 {
		return nil, nil
	}

	infoRequest := connectRequest{
		Action:  "cardsInfo",
		Version: ConnectVersion,
		Params: map[string]interface{}{
			"cards": cardIDs,
		},
	}

	result, err = s.sendRequest(ctx, infoRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card info: %w", err)
	}

	var infos []cardInfo
	if err := json.Unmarshal(result, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse card info: %w", err)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Note != infos[j].Note {
			return infos[i].Note < infos[j].Note
		}
		return infos[i].CardID < infos[j].CardID
	})

	cards := make([]models.Card, 0, len(infos))
	for _, info := range infos {
		card, err := toCard(info)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, nil
}

func toCard(info cardInfo) (models.Card, error) {
	state, err := models.StateFromQueue(info.Queue)
	if err != nil {
		return models.Card{}, fmt.Errorf("card %d: %w", info.CardID, err)
	}

	// AnkiConnect delivers fields as a name-keyed map; the order values
	// reconstruct the note type's field sequence.
	fields := make([]string, len(info.Fields))
	for name, field := range info.Fields {
		if field.Order < 0 || field.Order >= len(fields) {
			return models.Card{}, fmt.Errorf("card %d: field %s has order %d out of range", info.CardID, name, field.Order)
		}
		fields[field.Order] = field.Value
	}

	card, err := models.NewCard(fields, state, info.Reps, info.Lapses)
	if err != nil {
		return models.Card{}, fmt.Errorf("card %d: %w", info.CardID, err)
	}
	return card, nil
}

func (s *Service) sendRequest(ctx context.Context, req connectRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			s.log.Info("Retrying request (attempt %d/%d)...", attempt+1, MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(RetryDelay):
			}
		}

		result, err := s.post(ctx, payload)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}

	return nil, fmt.Errorf("after %d attempts: %v", MaxRetries, lastErr)
}

func (s *Service) post(ctx context.Context, payload []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.connectURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Error  *string         `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("anki error: %s", *result.Error)
	}

	return result.Result, nil
}
