package protocol

import (
	"encoding/base64"
	"encoding/json"
)

// Message is a waku message as the native boundary serializes it. Payload
// and Meta travel base64-encoded; Timestamp is Unix nanoseconds.
type Message struct {
	Payload      []byte       `json:"payload"`
	ContentTopic ContentTopic `json:"contentTopic"`
	Version      uint32       `json:"version"`
	Timestamp    int64        `json:"timestamp"`
	Meta         []byte       `json:"meta,omitempty"`
	Ephemeral    bool         `json:"ephemeral"`
}

type messageJSON struct {
	Payload      string       `json:"payload"`
	ContentTopic ContentTopic `json:"contentTopic"`
	Version      uint32       `json:"version"`
	Timestamp    int64        `json:"timestamp"`
	Meta         string       `json:"meta,omitempty"`
	Ephemeral    bool         `json:"ephemeral"`
}

// MarshalJSON renders the native wire shape with base64 payload and meta.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		Payload:      base64.StdEncoding.EncodeToString(m.Payload),
		ContentTopic: m.ContentTopic,
		Version:      m.Version,
		Timestamp:    m.Timestamp,
		Meta:         base64.StdEncoding.EncodeToString(m.Meta),
		Ephemeral:    m.Ephemeral,
	})
}

// UnmarshalJSON decodes the native wire shape.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := base64.StdEncoding.DecodeString(raw.Payload)
	if err != nil {
		return err
	}
	var meta []byte
	if raw.Meta != "" {
		meta, err = base64.StdEncoding.DecodeString(raw.Meta)
		if err != nil {
			return err
		}
	}
	*m = Message{
		Payload:      payload,
		ContentTopic: raw.ContentTopic,
		Version:      raw.Version,
		Timestamp:    raw.Timestamp,
		Meta:         meta,
		Ephemeral:    raw.Ephemeral,
	}
	return nil
}
