// Package events is a small named-topic notification bus. Publishers are
// detached from the request that triggered them, so a client disconnect does
// not drop a notification.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TopicIncomeSaved  = "incomes.saved"
	TopicExpenseSaved = "expenses.saved"
	TopicInvoicePaid  = "invoices.paid"
)

// Event is the envelope written to a topic.
type Event struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Handler consumes events of one topic.
type Handler func(ctx context.Context, event Event)

type Bus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
}

// RedisBus publishes JSON envelopes over Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	log    zerolog.Logger

	newID func() string
	now   func() time.Time
}

func NewRedisBus(client *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{
		client: client,
		log:    log.With().Str("component", "events").Logger(),
		newID:  func() string { return uuid.New().String() },
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (b *RedisBus) envelope(topic string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	return json.Marshal(Event{ID: b.newID(), Topic: topic, OccurredAt: b.now(), Payload: body})
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := b.envelope(topic, payload)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes the topic on its own goroutine until ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	sub := b.client.Subscribe(ctx, topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn().Err(err).Str("topic", topic).Msg("dropping malformed event")
					continue
				}
				handler(ctx, event)
			}
		}
	}()
	return nil
}

// LocalBus delivers events in-process. It is used when Redis is unavailable.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      zerolog.Logger
}

func NewLocalBus(log zerolog.Logger) *LocalBus {
	return &LocalBus{handlers: map[string][]Handler{}, log: log.With().Str("component", "events").Logger()}
}

func (b *LocalBus) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	event := Event{ID: uuid.New().String(), Topic: topic, OccurredAt: time.Now().UTC(), Payload: body}

	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	b.log.Debug().Str("topic", topic).Str("event_id", event.ID).Int("subscribers", len(handlers)).Msg("event published")
	for _, h := range handlers {
		h(ctx, event)
	}
	return nil
}

func (b *LocalBus) Subscribe(_ context.Context, topic string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Publisher fires events on a goroutine outside the caller's cancellation
// scope. Failures are logged, never returned.
type Publisher struct {
	bus Bus
	log zerolog.Logger
	wg  sync.WaitGroup
}

func NewPublisher(bus Bus, log zerolog.Logger) *Publisher {
	return &Publisher{bus: bus, log: log}
}

func (p *Publisher) Fire(ctx context.Context, topic string, payload any) {
	detached := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.bus.Publish(detached, topic, payload); err != nil {
			p.log.Warn().Err(err).Str("topic", topic).Msg("failed to publish event")
		}
	}()
}

// Wait blocks until every fired event has been handed to the bus.
func (p *Publisher) Wait() {
	p.wg.Wait()
}
