package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version is written into every envelope.
const Version = 0

type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Encode wraps state as {"state": ..., "version": Version}.
func Encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return json.Marshal(envelope{State: raw, Version: Version})
}

// Decode unwraps an envelope into state and returns its version. Malformed
// JSON or a missing state yields ErrCorrupt.
func Decode(data []byte, state any) (int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(env.State) == 0 || bytes.Equal(env.State, []byte("null")) {
		return env.Version, fmt.Errorf("%w: missing state", ErrCorrupt)
	}
	if err := json.Unmarshal(env.State, state); err != nil {
		return env.Version, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return env.Version, nil
}
