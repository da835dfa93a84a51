package protocol

import (
	"fmt"
	"strings"

	"github.com/waku-org/waku-go-bindings/errors"
)

// PubsubTopic names a gossip mesh messages are routed on. It is opaque to
// the bridge beyond the leading-slash well-formedness check.
type PubsubTopic string

const defaultPubsubTopic PubsubTopic = "/waku/2/default-waku/proto"

// DefaultPubsubTopic returns the network's default pubsub topic.
func DefaultPubsubTopic() PubsubTopic { return defaultPubsubTopic }

// NewPubsubTopic validates a raw pubsub topic string.
func NewPubsubTopic(s string) (PubsubTopic, error) {
	if !strings.HasPrefix(s, "/") || len(s) < 2 {
		return "", errors.InvalidTopic(s)
	}
	return PubsubTopic(s), nil
}

// StaticShardingPubsubTopic builds the topic of a static shard,
// /waku/2/rs/{cluster}/{shard}.
func StaticShardingPubsubTopic(clusterID, shardID uint16) PubsubTopic {
	return PubsubTopic(fmt.Sprintf("/waku/2/rs/%d/%d", clusterID, shardID))
}

func (p PubsubTopic) String() string { return string(p) }
