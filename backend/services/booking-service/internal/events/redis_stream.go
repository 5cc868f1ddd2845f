package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/go-redis/redis/v8"
)

const (
	streamReadBlock = 5 * time.Second
	streamReadCount = 16
)

// RedisStreamPublisher appends events to a Redis stream so any replica's
// consumer group can deliver them.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":      string(ev.Type),
			"data":      string(data),
			"timestamp": ev.OccurredAt.Unix(),
		},
	}).Err()
}

// RedisStreamConsumer reads the stream as one member of a consumer group and
// acknowledges each message after its handlers ran.
type RedisStreamConsumer struct {
	client         *redis.Client
	stream         string
	group          string
	consumer       string
	handlerTimeout time.Duration
	handlers       []Handler
}

func NewRedisStreamConsumer(
	client *redis.Client,
	stream, group, consumer string,
	handlerTimeout time.Duration,
	handlers ...Handler,
) *RedisStreamConsumer {
	return &RedisStreamConsumer{
		client:         client,
		stream:         stream,
		group:          group,
		consumer:       consumer,
		handlerTimeout: handlerTimeout,
		handlers:       handlers,
	}
}

// EnsureGroup creates the stream and consumer group if missing.
func (c *RedisStreamConsumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", c.group, err)
	}
	return nil
}

// Run polls until ctx is cancelled.
func (c *RedisStreamConsumer) Run(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := c.Poll(ctx, streamReadBlock); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			utils.Logger.WithError(err).Warn("event stream read failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// Poll reads one batch, dispatches and acknowledges it, and returns the
// number of messages processed.
func (c *RedisStreamConsumer) Poll(ctx context.Context, block time.Duration) (int, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    streamReadCount,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	n := 0
	for _, s := range streams {
		for _, msg := range s.Messages {
			if ev, ok := decodeMessage(msg); ok {
				Dispatch(ev, c.handlerTimeout, c.handlers...)
			}
			if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
				return n, fmt.Errorf("ack %s: %w", msg.ID, err)
			}
			n++
		}
	}
	return n, nil
}

func decodeMessage(msg redis.XMessage) (BookingEvent, bool) {
	var ev BookingEvent
	raw, ok := msg.Values["data"].(string)
	if !ok {
		utils.Logger.Warnf("event stream message %s has no data field", msg.ID)
		return ev, false
	}
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		utils.Logger.WithError(err).Warnf("event stream message %s is not a booking event", msg.ID)
		return ev, false
	}
	return ev, true
}
