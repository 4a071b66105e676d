// Package mirror copies stored audit events onto a Kafka topic for
// downstream consumers. Delivery is best effort and never reported back to
// the recorder.
package mirror

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"studytrail/internal/activity/metrics"
	"studytrail/internal/activity/models"
	"studytrail/internal/platform/logger"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/circuit"
)

// Producer is the async produce call of *kgo.Client.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

const defaultProbeInterval = 30 * time.Second

// message is the mirrored JSON shape. A system event with no user carries
// "user_id": null, matching the NULL column in the history table.
type message struct {
	*models.Event
	UserID *id.UserID `json:"user_id"`
}

func encode(event *models.Event) (key, value []byte, err error) {
	msg := message{Event: event}
	if !event.UserID.IsNil() {
		userID := event.UserID
		msg.UserID = &userID
		key = []byte(userID.String())
	}
	value, err = json.Marshal(msg)
	return key, value, err
}

// KafkaMirror produces events as JSON keyed by user id. While the breaker is
// open, events are dropped except for one probe per probe interval.
type KafkaMirror struct {
	producer      Producer
	topic         string
	breaker       *circuit.Breaker
	logger        *slog.Logger
	metrics       *metrics.Metrics
	clock         func() time.Time
	probeInterval time.Duration

	mu        sync.Mutex
	lastProbe time.Time
}

type Option func(*KafkaMirror)

func WithLogger(logger *slog.Logger) Option {
	return func(m *KafkaMirror) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *KafkaMirror) {
		m.metrics = mt
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *KafkaMirror) {
		if b != nil {
			m.breaker = b
		}
	}
}

// WithProbeInterval sets how often an open circuit lets one event through.
func WithProbeInterval(d time.Duration) Option {
	return func(m *KafkaMirror) {
		if d > 0 {
			m.probeInterval = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(m *KafkaMirror) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func NewKafka(producer Producer, topic string, opts ...Option) *KafkaMirror {
	m := &KafkaMirror{
		producer:      producer,
		topic:         topic,
		breaker:       circuit.New("activity-mirror", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(1)),
		logger:        logger.Discard(),
		clock:         time.Now,
		probeInterval: defaultProbeInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *KafkaMirror) Publish(ctx context.Context, event *models.Event) {
	if !m.allow() {
		m.incrementFailed()
		return
	}
	key, value, err := encode(event)
	if err != nil {
		m.logger.WarnContext(ctx, "activity mirror skipped event",
			"event_id", event.ID.String(),
			"error", err,
		)
		m.incrementFailed()
		return
	}
	record := &kgo.Record{
		Topic: m.topic,
		Key:   key,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
		Timestamp: event.CreatedAt,
	}
	// The request may finish before the broker acks.
	m.producer.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		m.onDelivery(ctx, event, err)
	})
}

func (m *KafkaMirror) allow() bool {
	if !m.breaker.IsOpen() {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	if now.Sub(m.lastProbe) < m.probeInterval {
		return false
	}
	m.lastProbe = now
	return true
}

func (m *KafkaMirror) onDelivery(ctx context.Context, event *models.Event, err error) {
	if err != nil {
		_, change := m.breaker.RecordFailure()
		m.incrementFailed()
		m.logger.WarnContext(ctx, "activity mirror delivery failed",
			"event_id", event.ID.String(),
			"action", string(event.Action),
			"error", err,
		)
		if change.Opened {
			m.logger.WarnContext(ctx, "activity mirror circuit opened", "breaker", m.breaker.Name())
			m.setCircuitOpen(true)
		}
		return
	}
	_, change := m.breaker.RecordSuccess()
	if m.metrics != nil {
		m.metrics.IncrementMirrorPublished()
	}
	if change.Closed {
		m.logger.InfoContext(ctx, "activity mirror circuit closed", "breaker", m.breaker.Name())
		m.setCircuitOpen(false)
	}
}

func (m *KafkaMirror) incrementFailed() {
	if m.metrics != nil {
		m.metrics.IncrementMirrorFailed()
	}
}

func (m *KafkaMirror) setCircuitOpen(open bool) {
	if m.metrics != nil {
		m.metrics.SetMirrorCircuitOpen(open)
	}
}
