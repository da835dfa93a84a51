package node

import (
	"encoding/hex"
	"encoding/json"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// Config is the node configuration serialized to the native JSON config
// document. Every field is optional; the zero value yields a relay node on
// the default shard.
type Config struct {
	// Host is the listening IP address. Default "0.0.0.0".
	Host string
	// TCPPort is the libp2p TCP listening port. Default 60000.
	TCPPort int
	// RandomPort binds an ephemeral port instead of TCPPort.
	RandomPort bool
	// ClusterID selects the shard cluster. Default 0.
	ClusterID uint16
	// Shards lists the static shards to subscribe to within ClusterID.
	Shards []uint16
	// NodeKey is the node's secp256k1 identity key. Default: randomly
	// generated by the native side.
	NodeKey *secp256k1.PrivateKey
	// Relay mounts the relay protocol. Default true; set DisableRelay to
	// turn it off.
	DisableRelay bool
	// RelayTopics lists pubsub topics to subscribe to at startup.
	RelayTopics []protocol.PubsubTopic
	// Filter mounts the filter service protocol. Default false.
	Filter bool
	// Store mounts the store service protocol. Default false.
	Store bool
	// Lightpush mounts the lightpush service protocol. Default false.
	Lightpush bool
	// Discv5Discovery enables discv5 peer discovery. Default false.
	Discv5Discovery bool
	// Discv5BootstrapNodes lists ENR records used to bootstrap discv5.
	Discv5BootstrapNodes []string
	// Discv5UDPPort is the discv5 listening port. Default 9000.
	Discv5UDPPort int
	// KeepAliveSeconds is the peer ping interval. Default 20.
	KeepAliveSeconds int
	// LogLevel sets native log verbosity (TRACE, DEBUG, INFO, NOTICE,
	// WARN, ERROR, FATAL). Default INFO.
	LogLevel string
	// MaxMessageSize caps accepted message size, e.g. "1024KiB". Default
	// is the native library's.
	MaxMessageSize string
}

// configJSON is the native wire shape of Config.
type configJSON struct {
	Host                 string                 `json:"host,omitempty"`
	TCPPort              int                    `json:"tcpPort"`
	ClusterID            uint16                 `json:"clusterId"`
	Shards               []uint16               `json:"shards,omitempty"`
	NodeKey              string                 `json:"nodekey,omitempty"`
	Relay                bool                   `json:"relay"`
	RelayTopics          []protocol.PubsubTopic `json:"relayTopics,omitempty"`
	Filter               bool                   `json:"filter,omitempty"`
	Store                bool                   `json:"store,omitempty"`
	Lightpush            bool                   `json:"lightpush,omitempty"`
	Discv5Discovery      bool                   `json:"discv5Discovery,omitempty"`
	Discv5BootstrapNodes []string               `json:"discv5BootstrapNodes,omitempty"`
	Discv5UDPPort        int                    `json:"discv5UdpPort,omitempty"`
	KeepAlive            int                    `json:"keepAlive,omitempty"`
	LogLevel             string                 `json:"logLevel,omitempty"`
	MaxMessageSize       string                 `json:"maxMessageSize,omitempty"`
}

// marshal renders the native config document, applying defaults.
func (c *Config) marshal() (string, error) {
	if c == nil {
		c = &Config{}
	}
	wire := configJSON{
		Host:                 c.Host,
		TCPPort:              c.TCPPort,
		ClusterID:            c.ClusterID,
		Shards:               c.Shards,
		Relay:                !c.DisableRelay,
		RelayTopics:          c.RelayTopics,
		Filter:               c.Filter,
		Store:                c.Store,
		Lightpush:            c.Lightpush,
		Discv5Discovery:      c.Discv5Discovery,
		Discv5BootstrapNodes: c.Discv5BootstrapNodes,
		Discv5UDPPort:        c.Discv5UDPPort,
		KeepAlive:            c.KeepAliveSeconds,
		LogLevel:             c.LogLevel,
		MaxMessageSize:       c.MaxMessageSize,
	}
	if wire.Host == "" {
		wire.Host = "0.0.0.0"
	}
	if wire.TCPPort == 0 {
		wire.TCPPort = 60000
	}
	if c.RandomPort {
		wire.TCPPort = 0
	}
	if wire.KeepAlive == 0 {
		wire.KeepAlive = 20
	}
	if c.NodeKey != nil {
		wire.NodeKey = hex.EncodeToString(c.NodeKey.Serialize())
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "", errors.Config("serialize node config", err)
	}
	return string(data), nil
}
