// Package api defines the billmate.v1 RPC messages exchanged over Connect.
//
// Messages are plain Go structs carried as JSON. Money travels as decimal strings
// ("12.50") so no precision is lost between client and server.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name. Requests use Content-Type application/json.
const CodecName = "json"

// JSONCodec marshals billmate messages with encoding/json.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body leaves msg at its zero value.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
