package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/waku-org/waku-go-bindings/node"
	"github.com/waku-org/waku-go-bindings/protocol"
	"github.com/waku-org/waku-go-bindings/testbed"
)

func main() {
	var (
		nick    = flag.String("nick", "anon", "Nickname shown with published messages")
		topic   = flag.String("topic", "chat", "Content topic name to chat on")
		cluster = flag.Int("cluster", 0, "Shard cluster ID")
		shard   = flag.Int("shard", 0, "Shard within the cluster (with -cluster > 0)")
		history = flag.Bool("history", false, "Print stored history for the topic and exit")
		debug   = flag.Bool("debug", false, "Enable debug logging to stderr")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		node.SetLogger(logger)
	}

	pubsubTopic := protocol.DefaultPubsubTopic()
	if *cluster > 0 {
		pubsubTopic = protocol.StaticShardingPubsubTopic(uint16(*cluster), uint16(*shard))
	}

	if *history {
		if err := printHistory(pubsubTopic, *topic); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runChat(pubsubTopic, *topic, *nick); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printHistory walks the full stored history for the topic and prints it
// oldest first.
func printHistory(pubsubTopic protocol.PubsubTopic, topicName string) error {
	ctx := context.Background()

	lib := testbed.New()
	n, err := node.New(ctx, lib, &node.Config{Store: true, RandomPort: true})
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	running, err := n.Start(ctx)
	if err != nil {
		n.Destroy(ctx)
		return fmt.Errorf("start node: %w", err)
	}
	defer running.Destroy(ctx)

	addrs, err := running.ListenAddresses(ctx)
	if err != nil {
		return fmt.Errorf("listen addresses: %w", err)
	}

	contentTopic, err := running.NewContentTopic(ctx, "waku", 2, topicName, protocol.EncodingProto)
	if err != nil {
		return fmt.Errorf("content topic: %w", err)
	}

	msgs, err := running.StoreQuery(ctx, node.StoreCriteria{
		PubsubTopic:   pubsubTopic,
		ContentTopics: []protocol.ContentTopic{contentTopic},
		PageSize:      25,
	}, addrs[0], 30*time.Second)
	if err != nil {
		return fmt.Errorf("store query: %w", err)
	}

	fmt.Printf("History on %s (%d messages):\n", contentTopic, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Message == nil {
			fmt.Printf("  %s\n", m.MessageHash)
			continue
		}
		ts := time.Unix(0, m.Message.Timestamp).Format(time.RFC3339)
		fmt.Printf("  %s  %s\n", ts, m.Message.Payload)
	}
	return nil
}
