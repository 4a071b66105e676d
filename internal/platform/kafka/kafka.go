// Package kafka builds the franz-go client used by the activity mirror.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"studytrail/internal/platform/config"
)

// New connects a producer client with the activity topic as default.
// Returns nil when no brokers are configured.
func New(ctx context.Context, cfg config.KafkaConfig) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.ActivityTopic),
		kgo.ProducerLinger(10*time.Millisecond),
		kgo.RecordDeliveryTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return client, nil
}

// EnsureTopic creates the activity topic if it is missing.
func EnsureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig, logger *slog.Logger) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, cfg.Partitions, cfg.Replication, nil, cfg.ActivityTopic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", cfg.ActivityTopic, err)
	}
	for topic, r := range resp {
		if r.Err == nil {
			logger.InfoContext(ctx, "kafka topic created", "topic", topic)
			continue
		}
		if errors.Is(r.Err, kerr.TopicAlreadyExists) {
			continue
		}
		return fmt.Errorf("create topic %s: %w", topic, r.Err)
	}
	return nil
}
