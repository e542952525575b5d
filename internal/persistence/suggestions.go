package persistence

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Suggestion is the persisted shape of one pending evolutionary
// suggestion, per evolution:pending_suggestions.
type Suggestion struct {
	ID                 string  `json:"id"`
	TypeID             string  `json:"typeId"`
	BaseType           string  `json:"baseType"`
	Modifier           string  `json:"modifier"`
	ApplicationContext string  `json:"applicationContext"`
	RiskLevel          float64 `json:"riskLevel"`
	ExpectedCreativity float64 `json:"expectedCreativity"`
	Applied            bool    `json:"applied"`
}

// readSuggestions loads the current JSON array at
// evolution:pending_suggestions, treating a missing key as empty.
func (c *Client) readSuggestions(ctx context.Context) ([]Suggestion, error) {
	raw, err := c.rdb.Get(ctx, KeyPendingSuggestions).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var suggestions []Suggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// PendingSuggestions returns the authoritative current list.
func (c *Client) PendingSuggestions(ctx context.Context) ([]Suggestion, error) {
	return c.readSuggestions(ctx)
}

// mutateSuggestions performs an atomic read-modify-write of the
// pending-suggestions key via a WATCH/MULTI transaction, per spec.md
// §6's "writes are atomic" requirement.
func (c *Client) mutateSuggestions(ctx context.Context, mutate func([]Suggestion) []Suggestion) ([]Suggestion, error) {
	var result []Suggestion
	txf := func(tx *redis.Tx) error {
		current, err := func() ([]Suggestion, error) {
			raw, err := tx.Get(ctx, KeyPendingSuggestions).Bytes()
			if err == redis.Nil {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			var suggestions []Suggestion
			if err := json.Unmarshal(raw, &suggestions); err != nil {
				return nil, err
			}
			return suggestions, nil
		}()
		if err != nil {
			return err
		}

		result = mutate(current)
		payload, err := json.Marshal(result)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, KeyPendingSuggestions, payload, 0)
			return nil
		})
		return err
	}

	if err := c.rdb.Watch(ctx, txf, KeyPendingSuggestions); err != nil {
		return nil, err
	}
	return result, nil
}

// AddSuggestion appends a new pending suggestion and re-publishes the
// updated list.
func (c *Client) AddSuggestion(ctx context.Context, s Suggestion) ([]Suggestion, error) {
	updated, err := c.mutateSuggestions(ctx, func(current []Suggestion) []Suggestion {
		return append(current, s)
	})
	if err != nil {
		return nil, err
	}
	return updated, c.republishSuggestions(ctx, updated)
}

// ApplySuggestion marks a suggestion applied in place.
func (c *Client) ApplySuggestion(ctx context.Context, suggestionID string) ([]Suggestion, error) {
	updated, err := c.mutateSuggestions(ctx, func(current []Suggestion) []Suggestion {
		for i := range current {
			if current[i].ID == suggestionID {
				current[i].Applied = true
			}
		}
		return current
	})
	if err != nil {
		return nil, err
	}
	return updated, c.republishSuggestions(ctx, updated)
}

// RejectSuggestion removes a suggestion from the pending list.
func (c *Client) RejectSuggestion(ctx context.Context, suggestionID string) ([]Suggestion, error) {
	updated, err := c.mutateSuggestions(ctx, func(current []Suggestion) []Suggestion {
		out := current[:0]
		for _, s := range current {
			if s.ID != suggestionID {
				out = append(out, s)
			}
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return updated, c.republishSuggestions(ctx, updated)
}

// republishSuggestions re-publishes the current pending list on
// control:commands, matching request_suggestion_update's contract.
func (c *Client) republishSuggestions(ctx context.Context, suggestions []Suggestion) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, KeyControlCommands, payload).Err()
}
