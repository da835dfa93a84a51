package node

import (
	"encoding/json"

	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// EventHandler receives every event the native node emits, in delivery
// order. It runs on the native delivery thread: a slow handler delays
// subsequent events, and the handler must synchronize any state it shares
// with other goroutines.
type EventHandler func(Event)

// Event is one asynchronous node event, tagged by concrete type:
// MessageEvent, TopicHealthEvent, ConnectionChangeEvent or
// UnrecognizedEvent.
type Event interface {
	isEvent()
}

// MessageEvent reports a message received through relay or filter.
type MessageEvent struct {
	PubsubTopic protocol.PubsubTopic `json:"pubsubTopic"`
	MessageHash protocol.MessageHash `json:"messageHash"`
	Message     protocol.Message     `json:"wakuMessage"`
}

// TopicHealthEvent reports a change in the health of a relay topic mesh.
type TopicHealthEvent struct {
	PubsubTopic protocol.PubsubTopic `json:"pubsubTopic"`
	TopicHealth string               `json:"topicHealth"`
}

// ConnectionChangeEvent reports a peer joining or leaving.
type ConnectionChangeEvent struct {
	PeerID    string `json:"peerId"`
	PeerEvent string `json:"peerEvent"`
}

// UnrecognizedEvent carries an event kind this version of the bindings does
// not know, with its raw undecoded payload. New native event kinds must not
// crash older handlers.
type UnrecognizedEvent struct {
	EventType string
	Raw       json.RawMessage
}

func (MessageEvent) isEvent()          {}
func (TopicHealthEvent) isEvent()      {}
func (ConnectionChangeEvent) isEvent() {}
func (UnrecognizedEvent) isEvent()     {}

func eventName(ev Event) string {
	switch e := ev.(type) {
	case MessageEvent:
		return "message"
	case TopicHealthEvent:
		return "relay_topic_health_change"
	case ConnectionChangeEvent:
		return "connection_change"
	case UnrecognizedEvent:
		return "unrecognized:" + e.EventType
	default:
		return "unknown"
	}
}

// decodeEvent decodes one native event payload into its tagged variant. A
// payload that is not a JSON document, or a known event kind whose body
// does not match its shape, is a native contract violation and panics.
func decodeEvent(payload []byte) Event {
	var probe struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		panic(errors.InvalidJSON(errors.PhaseEvent, "dispatch", err))
	}

	switch probe.EventType {
	case "message":
		var ev MessageEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			panic(errors.InvalidJSON(errors.PhaseEvent, "message", err))
		}
		return ev
	case "relay_topic_health_change":
		var ev TopicHealthEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			panic(errors.InvalidJSON(errors.PhaseEvent, "relay_topic_health_change", err))
		}
		return ev
	case "connection_change":
		var ev ConnectionChangeEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			panic(errors.InvalidJSON(errors.PhaseEvent, "connection_change", err))
		}
		return ev
	default:
		return UnrecognizedEvent{
			EventType: probe.EventType,
			Raw:       append(json.RawMessage(nil), payload...),
		}
	}
}
