// Package redisbus carries accepted location samples between processes over
// Redis pub/sub. A Bus is both a LocationPublisher and a ChangeStream, so every
// replica's router sees samples reported to any other replica.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "assetsync:locations"

// Bus publishes and receives location RowChanges on a single channel.
type Bus struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewBus creates a bus from a URL in the format
// redis://[:password@]host[:port][/database].
func NewBus(redisURL, channel string, logger *zap.Logger) (*Bus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("redis_url", err)
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &Bus{
		client:  redis.NewClient(opts),
		channel: channel,
		logger:  logger.With(zap.String("component", "redis_bus"), zap.String("channel", channel)),
	}, nil
}

func (b *Bus) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return errs.NewUnavailableError("redis", fmt.Errorf("redis ping failed: %w", err))
	}
	return nil
}

func (b *Bus) Close() error {
	return b.client.Close()
}

// PublishLocation sends the sample to every subscribed process.
func (b *Bus) PublishLocation(ctx context.Context, sample location.Sample) error {
	rc, err := change.LocationRowChange(sample)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rc)
	if err != nil {
		return fmt.Errorf("encode location change: %w", err)
	}
	if err = b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errs.NewUnavailableError("redis", err)
	}
	return nil
}

// Changes subscribes to the channel. The returned channel is closed when ctx
// is done or the subscription ends. Undecodable messages are logged and skipped.
func (b *Bus) Changes(ctx context.Context) (<-chan change.RowChange, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errs.NewUnavailableError("redis", err)
	}

	out := make(chan change.RowChange)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				b.logger.Debug("closing subscription", zap.Error(err))
			}
		}()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					b.logger.Warn("subscription closed")
					return
				}
				rc, err := decode(msg.Payload)
				if err != nil {
					b.logger.Warn("dropping malformed message", zap.Error(err))
					continue
				}
				select {
				case out <- rc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	b.logger.Info("subscribed")
	return out, nil
}

func decode(payload string) (change.RowChange, error) {
	var rc change.RowChange
	if err := json.Unmarshal([]byte(payload), &rc); err != nil {
		return change.RowChange{}, fmt.Errorf("decode location change: %w", err)
	}
	if rc.Table != change.TableLocations {
		return change.RowChange{}, errs.NewValueIsInvalidErrorWithCause("table",
			fmt.Errorf("unexpected table %q on location channel", rc.Table))
	}
	return rc, nil
}
