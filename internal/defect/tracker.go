package defect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// StorageKey is the key that holds the found set.
const StorageKey = "bug-hunt-found"

// KV is the key-value capability the tracker persists through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Tracker persists the found set.
type Tracker struct {
	kv KV
}

// NewTracker creates a tracker over kv.
func NewTracker(kv KV) *Tracker {
	return &Tracker{kv: kv}
}

// Found returns reported ids in report order. Missing or null values are an empty set;
// unknown or repeated stored ids are dropped.
func (t *Tracker) Found(ctx context.Context) ([]ID, error) {
	raw, err := t.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read found defects: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Reset(), nil
	}
	var stored []ID
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode found defects: %w", err)
	}
	found, dropped := Normalize(stored)
	if len(dropped) > 0 {
		log.Warn().Interface("dropped", dropped).Msg("ignoring invalid stored defect ids")
	}
	return found, nil
}

// Record stores id unless it was already reported.
func (t *Tracker) Record(ctx context.Context, id ID) (Outcome, []ID, error) {
	if !id.Valid() {
		return "", nil, fmt.Errorf("%w %q", ErrUnknownDefect, id)
	}
	found, err := t.Found(ctx)
	if err != nil {
		return "", nil, err
	}
	out, outcome := Record(found, id)
	if outcome == OutcomeAlreadyReported {
		return outcome, found, nil
	}
	if err := t.save(ctx, out); err != nil {
		return "", nil, err
	}
	return outcome, out, nil
}

// Reset clears the found set.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.save(ctx, Reset())
}

func (t *Tracker) save(ctx context.Context, found []ID) error {
	data, err := json.Marshal(found)
	if err != nil {
		return fmt.Errorf("encode found defects: %w", err)
	}
	if err := t.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("write found defects: %w", err)
	}
	return nil
}
