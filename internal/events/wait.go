package events

import (
	"context"
	"fmt"
	"time"
)

// WaitFor subscribes to sub, blocks until pred accepts a frame or the context
// ends, then unsubscribes. It is the building block for "do X and wait for
// the robot to report done" flows (face training, audio completion).
func (m *Manager) WaitFor(ctx context.Context, sub Subscription, debounceMS int, pred func(Event) bool) (Event, error) {
	matched := make(chan Event, 1)

	token, err := m.Subscribe(ctx, sub, func(e Event) {
		if pred(e) {
			select {
			case matched <- e:
			default:
			}
		}
	}, debounceMS)
	if err != nil {
		return Event{}, err
	}

	defer func() {
		cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Unsubscribe(cleanup, token); err != nil {
			m.logger.Debug("cleanup unsubscribe failed", "event", token.EventName, "err", err)
		}
	}()

	select {
	case e := <-matched:
		return e, nil
	case <-ctx.Done():
		return Event{}, fmt.Errorf("waiting for %s: %w", sub, ctx.Err())
	}
}

// Stream subscribes and delivers events over a channel until the context
// ends. Frames that arrive while the receiver lags are dropped rather than
// stalling the read loop; the channel is closed once the subscription is torn
// down.
func (m *Manager) Stream(ctx context.Context, sub Subscription, debounceMS int) (<-chan Event, error) {
	ch := make(chan Event, 64)

	token, err := m.Subscribe(ctx, sub, func(e Event) {
		select {
		case ch <- e:
		default:
		}
	}, debounceMS)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Unsubscribe(cleanup, token); err != nil {
			m.logger.Debug("stream unsubscribe failed", "event", token.EventName, "err", err)
		}
		close(ch)
	}()

	return ch, nil
}
