// Package changestream turns NOTIFY messages from the asset_changes channel
// into change.RowChange values.
package changestream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assetsync/internal/adapters/out/postgres/containerrepo"
	"assetsync/internal/adapters/out/postgres/orderrepo"
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	DSN     string
	Channel string
	// MinReconnect and MaxReconnect bound the listener's reconnect delay.
	MinReconnect time.Duration
	MaxReconnect time.Duration
	// PingInterval is how long the listener waits for a notification before
	// checking the connection.
	PingInterval time.Duration
}

// Listener implements ports.ChangeStream on top of lib/pq's LISTEN support.
type Listener struct {
	cfg    Config
	logger *zap.Logger
}

func NewListener(cfg Config, logger *zap.Logger) *Listener {
	if cfg.MinReconnect <= 0 {
		cfg.MinReconnect = 100 * time.Millisecond
	}
	if cfg.MaxReconnect <= 0 {
		cfg.MaxReconnect = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 90 * time.Second
	}
	return &Listener{cfg: cfg, logger: logger.With(zap.String("component", "pg_changestream"))}
}

// Changes opens the LISTEN connection. The initial connection is retried with
// exponential backoff until ctx is done; failing that it returns an
// UnavailableError. Later disconnects are handled by pq's reconnect loop and
// reported in the log.
func (l *Listener) Changes(ctx context.Context) (<-chan change.RowChange, error) {
	listener := pq.NewListener(l.cfg.DSN, l.cfg.MinReconnect, l.cfg.MaxReconnect, l.event)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.cfg.MinReconnect
	b.MaxInterval = l.cfg.MaxReconnect
	b.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(func() error {
		return listener.Listen(l.cfg.Channel)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		_ = listener.Close()
		return nil, errs.NewUnavailableError("postgres listener", err)
	}

	out := make(chan change.RowChange)
	go l.pump(ctx, listener, out)
	return out, nil
}

func (l *Listener) pump(ctx context.Context, listener *pq.Listener, out chan<- change.RowChange) {
	defer close(out)
	defer func() {
		if err := listener.Close(); err != nil {
			l.logger.Warn("listener close failed", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(l.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.Warn("listener ping failed", zap.Error(err))
				}
			}()
		case n := <-listener.Notify:
			// nil after a reconnect: notifications may have been missed.
			if n == nil {
				l.logger.Warn("listener reconnected, notifications may have been lost")
				continue
			}

			rc, err := Decode([]byte(n.Extra))
			if err != nil {
				l.logger.Warn("undecodable notification", zap.String("channel", n.Channel), zap.Error(err))
				continue
			}

			select {
			case out <- rc:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (l *Listener) event(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.logger.Info("listener connected", zap.String("channel", l.cfg.Channel))
	case pq.ListenerEventDisconnected:
		l.logger.Warn("listener disconnected", zap.Error(err))
	case pq.ListenerEventReconnected:
		l.logger.Info("listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Warn("listener connection attempt failed", zap.Error(err))
	}
}

type notification struct {
	Table   string          `json:"table"`
	Op      string          `json:"op"`
	RowID   int64           `json:"row_id"`
	Version int64           `json:"version"`
	Before  json.RawMessage `json:"before"`
	After   json.RawMessage `json:"after"`
}

// Decode converts a trigger payload into a RowChange carrying the same
// snapshots the in-process stores produce.
func Decode(payload []byte) (change.RowChange, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return change.RowChange{}, fmt.Errorf("decode notification: %w", err)
	}

	hasBefore := len(n.Before) > 0 && string(n.Before) != "null"

	var (
		rc  change.RowChange
		err error
	)
	switch change.Table(n.Table) {
	case change.TableOrders:
		after, decodeErr := orderrepo.DecodeRow(n.After)
		if decodeErr != nil {
			return change.RowChange{}, decodeErr
		}
		if hasBefore {
			before, beforeErr := orderrepo.DecodeRow(n.Before)
			if beforeErr != nil {
				return change.RowChange{}, beforeErr
			}
			rc, err = change.OrderRowChange(before, after)
		} else {
			rc, err = change.OrderRowChange(nil, after)
		}
	case change.TableContainers:
		after, decodeErr := containerrepo.DecodeRow(n.After)
		if decodeErr != nil {
			return change.RowChange{}, decodeErr
		}
		if hasBefore {
			before, beforeErr := containerrepo.DecodeRow(n.Before)
			if beforeErr != nil {
				return change.RowChange{}, beforeErr
			}
			rc, err = change.ContainerRowChange(before, after)
		} else {
			rc, err = change.ContainerRowChange(nil, after)
		}
	default:
		return change.RowChange{}, errs.NewValueIsInvalidErrorWithCause("table",
			fmt.Errorf("unexpected table %q on row %s", n.Table, kernel.ID(n.RowID)))
	}
	if err != nil {
		return change.RowChange{}, err
	}

	rc.Op = n.Op
	return rc, nil
}
