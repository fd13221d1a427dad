package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/inputs"
)

// State is what a session persists between runs.
type State struct {
	Scenario *inputs.Scenario  `json:"scenario"`
	Data     *document.Document `json:"data"`
}

// Encode serializes the state as JSON.
func (s *State) Encode() ([]byte, error) {
	if s == nil || s.Scenario == nil {
		return nil, errors.New("store: state has no scenario")
	}
	out, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("store: encode state: %w", err)
	}
	return out, nil
}

// DecodeState parses a blob written by Encode.
func DecodeState(blob []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("store: decode state: %w", err)
	}
	if state.Scenario == nil {
		return nil, errors.New("store: decode state: missing scenario")
	}
	if err := inputs.Check(state.Scenario.Inputs); err != nil {
		return nil, fmt.Errorf("store: decode state: %w", err)
	}
	if state.Data == nil {
		state.Data = document.New()
	}
	return &state, nil
}

// LoadState restores the state saved under key. Absent or unreadable state
// is reported as false, never as an error; an undecodable blob is removed so
// the next save starts clean.
func LoadState(ctx context.Context, s Store, key Key) (*State, bool) {
	logger := ctxlog.FromContext(ctx).With("key", string(key))

	blob, err := s.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		logger.Debug("no saved state")
		return nil, false
	}
	if err != nil {
		logger.Warn("saved state unreadable", "error", err)
		return nil, false
	}

	state, err := DecodeState(blob)
	if err != nil {
		logger.Warn("discarding invalid saved state", "error", err)
		if rmErr := s.Remove(ctx, key); rmErr != nil {
			logger.Error("remove invalid state", "error", rmErr)
		}
		return nil, false
	}
	logger.Debug("restored saved state", "bytes", len(blob))
	return state, true
}

// SaveState persists state under key.
func SaveState(ctx context.Context, s Store, key Key, state *State) error {
	blob, err := state.Encode()
	if err != nil {
		return err
	}
	if err := s.Save(ctx, key, blob); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("saved state", "key", string(key), "bytes", len(blob))
	return nil
}
