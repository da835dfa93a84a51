package protocol

import (
	"encoding/json"
	"strings"

	"github.com/waku-org/waku-go-bindings/errors"
)

// Encoding is the payload encoding scheme of a content topic.
type Encoding struct {
	raw string
}

var (
	EncodingProto = Encoding{"proto"}
	EncodingRLP   = Encoding{"rlp"}
	EncodingRFC26 = Encoding{"rfc26"}
)

// ParseEncoding parses an encoding name case-insensitively. Unknown names
// are preserved as-is rather than rejected.
func ParseEncoding(s string) Encoding {
	switch strings.ToLower(s) {
	case "proto":
		return EncodingProto
	case "rlp":
		return EncodingRLP
	case "rfc26":
		return EncodingRFC26
	default:
		return Encoding{strings.ToLower(s)}
	}
}

func (e Encoding) String() string { return e.raw }

// ContentTopic identifies application content routed through the network,
// with the canonical textual form
// /{application}/{version}/{name}/{encoding}. Equality is defined on the
// structured fields, so two topics parsed from the same string are equal.
type ContentTopic struct {
	Application string
	Version     string
	Name        string
	Encoding    Encoding
}

// NewContentTopic assembles a content topic from its parts.
func NewContentTopic(application, version, name string, encoding Encoding) ContentTopic {
	return ContentTopic{
		Application: application,
		Version:     version,
		Name:        name,
		Encoding:    encoding,
	}
}

// ParseContentTopic parses the canonical /{application}/{version}/{name}/{encoding}
// form.
func ParseContentTopic(s string) (ContentTopic, error) {
	if !strings.HasPrefix(s, "/") {
		return ContentTopic{}, errors.InvalidTopic(s)
	}
	parts := strings.Split(s[1:], "/")
	if len(parts) != 4 {
		return ContentTopic{}, errors.InvalidTopic(s)
	}
	for _, p := range parts {
		if p == "" {
			return ContentTopic{}, errors.InvalidTopic(s)
		}
	}
	return ContentTopic{
		Application: parts[0],
		Version:     parts[1],
		Name:        parts[2],
		Encoding:    ParseEncoding(parts[3]),
	}, nil
}

// String renders the canonical form. A topic parsed from its canonical
// string renders back to the identical string.
func (c ContentTopic) String() string {
	var b strings.Builder
	b.Grow(4 + len(c.Application) + len(c.Version) + len(c.Name) + len(c.Encoding.raw))
	b.WriteByte('/')
	b.WriteString(c.Application)
	b.WriteByte('/')
	b.WriteString(c.Version)
	b.WriteByte('/')
	b.WriteString(c.Name)
	b.WriteByte('/')
	b.WriteString(c.Encoding.raw)
	return b.String()
}

// MarshalJSON encodes the topic as its canonical string.
func (c ContentTopic) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes the topic from its canonical string.
func (c *ContentTopic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContentTopic(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// JoinContentTopics renders a comma-joined list of canonical forms, the
// shape the native filter operations expect.
func JoinContentTopics(topics []ContentTopic) string {
	rendered := make([]string, len(topics))
	for i, t := range topics {
		rendered[i] = t.String()
	}
	return strings.Join(rendered, ",")
}
