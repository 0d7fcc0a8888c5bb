package cmdlog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shrtyk/cmdlog/api"
)

// The key and value sides deliberately decode differently: a command id is
// the record's identity, so an unknown or malformed key is fatal and must
// surface; a command payload evolves across releases, so its decoder
// tolerates unknown fields, and an absent value is a legitimate tombstone.

func encodeCommandID(id api.CommandID) ([]byte, error) {
	b, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("encode command id: %w", err)
	}
	return b, nil
}

func decodeCommandID(key []byte) (api.CommandID, error) {
	dec := json.NewDecoder(bytes.NewReader(key))
	dec.DisallowUnknownFields()

	var id api.CommandID
	if err := dec.Decode(&id); err != nil {
		return api.CommandID{}, fmt.Errorf("decode command id: %w", err)
	}
	return id, nil
}

func encodeCommand(cmd api.Command) ([]byte, error) {
	b, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	return b, nil
}

func decodeCommand(value []byte) (api.Payload, error) {
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return api.TombstonePayload(), nil
	}

	var cmd api.Command
	if err := json.Unmarshal(value, &cmd); err != nil {
		return api.Payload{}, fmt.Errorf("decode command: %w", err)
	}
	return api.PresentPayload(cmd), nil
}
