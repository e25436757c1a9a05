package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/copilette/misty/internal/shared"
)

// pubsubServer stands in for the firmware's pubsub socket. Every frame the
// client writes lands on received, and frames pushed onto outgoing are
// delivered to the most recently accepted connection.
type pubsubServer struct {
	srv      *httptest.Server
	received chan []byte
	outgoing chan []byte
}

func newPubsubServer(t *testing.T) *pubsubServer {
	t.Helper()

	s := &pubsubServer{
		received: make(chan []byte, 16),
		outgoing: make(chan []byte, 16),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}

		go func() {
			for {
				select {
				case payload := <-s.outgoing:
					if err := conn.Write(r.Context(), websocket.MessageText, payload); err != nil {
						return
					}
				case <-r.Context().Done():
					return
				}
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			s.received <- data
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *pubsubServer) endpoint() string {
	return "ws://" + strings.TrimPrefix(s.srv.URL, "http://")
}

func (s *pubsubServer) recv(t *testing.T) []byte {
	t.Helper()
	select {
	case data := <-s.received:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame from the client")
		return nil
	}
}

// sendEvent delivers an event frame whose message is the given JSON value.
func (s *pubsubServer) sendEvent(t *testing.T, eventName, message string) {
	t.Helper()
	payload := fmt.Sprintf(`{"eventName": %q, "message": %s}`, eventName, message)
	select {
	case s.outgoing <- []byte(payload):
	case <-time.After(2 * time.Second):
		t.Fatal("timed out delivering a frame to the client")
	}
}

// wireFrame mirrors what the client writes on the socket.
type wireFrame struct {
	Operation       string              `json:"Operation"`
	Type            string              `json:"Type"`
	DebounceMS      int                 `json:"DebounceMS"`
	EventName       string              `json:"EventName"`
	EventConditions []map[string]string `json:"EventConditions"`
	ReturnProperty  string              `json:"ReturnProperty"`
}

func (s *pubsubServer) recvFrame(t *testing.T) wireFrame {
	t.Helper()
	var frame wireFrame
	if err := json.Unmarshal(s.recv(t), &frame); err != nil {
		t.Fatalf("failed to decode client frame: %v", err)
	}
	return frame
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the handler")
		return Event{}
	}
}

func TestSubscribe(t *testing.T) {
	t.Run("sends the registration frame", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		sub := TouchChin.Subscription()
		token, err := mgr.Subscribe(context.Background(), sub, func(Event) {}, 0)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer mgr.Unsubscribe(context.Background(), token)

		raw := server.recv(t)
		var frame wireFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("failed to decode client frame: %v", err)
		}
		if frame.Operation != "subscribe" {
			t.Errorf("got operation %q, want subscribe", frame.Operation)
		}
		if frame.Type != string(TouchSensor) {
			t.Errorf("got type %q, want %q", frame.Type, TouchSensor)
		}
		if frame.DebounceMS != 250 {
			t.Errorf("got debounce %d, want the 250 default", frame.DebounceMS)
		}
		// The firmware is strict about this key's casing.
		if !strings.Contains(string(raw), `"DebounceMS"`) {
			t.Errorf("frame %s does not spell the DebounceMS key the way the firmware expects", raw)
		}
		if !strings.HasPrefix(frame.EventName, sub.String()+"-") {
			t.Errorf("event name %q does not embed the subscription %q", frame.EventName, sub)
		}
		if frame.EventName != token.EventName {
			t.Errorf("frame names %q but the token says %q", frame.EventName, token.EventName)
		}

		if len(frame.EventConditions) != 1 {
			t.Fatalf("got %d conditions, want 1", len(frame.EventConditions))
		}
		cond := frame.EventConditions[0]
		if cond["Property"] != "sensorPosition" || cond["Inequality"] != "=" || cond["Value"] != "Chin" {
			t.Errorf("unexpected condition payload: %v", cond)
		}

		if mgr.ActiveCount() != 1 {
			t.Errorf("got %d active subscriptions, want 1", mgr.ActiveCount())
		}
	})

	t.Run("passes debounce and return property through", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		token, err := mgr.Subscribe(context.Background(), IMUYaw.Subscription(), func(Event) {}, 500)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer mgr.Unsubscribe(context.Background(), token)

		frame := server.recvFrame(t)
		if frame.DebounceMS != 500 {
			t.Errorf("got debounce %d, want 500", frame.DebounceMS)
		}
		if frame.ReturnProperty != "Yaw" {
			t.Errorf("got return property %q, want Yaw", frame.ReturnProperty)
		}
	})

	t.Run("dispatches frames and skips the registration ack", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		got := make(chan Event, 4)
		token, err := mgr.Subscribe(context.Background(), NewSubscription(BatteryCharge), func(e Event) {
			got <- e
		}, 0)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer mgr.Unsubscribe(context.Background(), token)
		server.recv(t)

		server.sendEvent(t, token.EventName, `"Registration Status: API event registered."`)
		server.sendEvent(t, token.EventName, `{"chargePercent": 0.8}`)

		e := waitEvent(t, got)
		if e.Name != token.EventName {
			t.Errorf("got event name %q, want %q", e.Name, token.EventName)
		}
		if e.Type != BatteryCharge {
			t.Errorf("got event type %q, want BatteryCharge", e.Type)
		}
		field, ok := e.Field("chargePercent")
		if !ok || string(field) != "0.8" {
			t.Errorf("got chargePercent %q, want 0.8", field)
		}

		select {
		case extra := <-got:
			t.Errorf("the ack frame reached the handler: %v", extra)
		default:
		}
	})

	t.Run("scalar payloads decode directly", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		got := make(chan Event, 1)
		token, err := mgr.Subscribe(context.Background(), IMUYaw.Subscription(), func(e Event) {
			got <- e
		}, 0)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer mgr.Unsubscribe(context.Background(), token)
		server.recv(t)

		server.sendEvent(t, token.EventName, `42.5`)

		e := waitEvent(t, got)
		v, ok := e.Scalar()
		if !ok || v != 42.5 {
			t.Errorf("got scalar (%v, %v), want (42.5, true)", v, ok)
		}
	})

	t.Run("dial failure surfaces", func(t *testing.T) {
		mgr := NewManager("ws://127.0.0.1:1", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if _, err := mgr.Subscribe(ctx, NewSubscription(TouchSensor), func(Event) {}, 0); err == nil {
			t.Fatal("expected an error dialing an unreachable endpoint")
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("sends the unsubscribe frame and drops the registration", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		token, err := mgr.Subscribe(context.Background(), NewSubscription(TouchSensor), func(Event) {}, 0)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		server.recv(t)

		if err := mgr.Unsubscribe(context.Background(), token); err != nil {
			t.Fatalf("Unsubscribe failed: %v", err)
		}

		var frame wireFrame
		if err := json.Unmarshal(server.recv(t), &frame); err != nil {
			t.Fatalf("failed to decode the unsubscribe frame: %v", err)
		}
		if frame.Operation != "unsubscribe" || frame.EventName != token.EventName {
			t.Errorf("unexpected unsubscribe frame: %+v", frame)
		}

		if mgr.ActiveCount() != 0 {
			t.Errorf("got %d active subscriptions, want 0", mgr.ActiveCount())
		}
	})

	t.Run("a dead token reports the subscription closed", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		token, err := mgr.Subscribe(context.Background(), NewSubscription(TouchSensor), func(Event) {}, 0)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		server.recv(t)

		if err := mgr.Unsubscribe(context.Background(), token); err != nil {
			t.Fatalf("first Unsubscribe failed: %v", err)
		}
		if err := mgr.Unsubscribe(context.Background(), token); !errors.Is(err, shared.ErrSubscriptionClosed) {
			t.Errorf("got %v, want ErrSubscriptionClosed", err)
		}
	})
}

func TestClose(t *testing.T) {
	server := newPubsubServer(t)
	mgr := NewManager(server.endpoint(), nil)

	for _, sub := range []Subscription{NewSubscription(TouchSensor), NewSubscription(BumpSensor)} {
		if _, err := mgr.Subscribe(context.Background(), sub, func(Event) {}, 0); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		server.recv(t)
	}
	if mgr.ActiveCount() != 2 {
		t.Fatalf("got %d active subscriptions, want 2", mgr.ActiveCount())
	}

	if err := mgr.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if mgr.ActiveCount() != 0 {
		t.Errorf("got %d active subscriptions after Close, want 0", mgr.ActiveCount())
	}
}

func TestWaitFor(t *testing.T) {
	t.Run("returns the first frame the predicate accepts", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		done := make(chan struct{})
		var got Event
		var waitErr error
		go func() {
			defer close(done)
			got, waitErr = mgr.WaitFor(context.Background(), NewSubscription(FaceTraining), 0, func(e Event) bool {
				field, ok := e.Field("message")
				return ok && strings.Contains(string(field), "complete")
			})
		}()

		frame := server.recvFrame(t)
		server.sendEvent(t, frame.EventName, `{"message": "training started"}`)
		server.sendEvent(t, frame.EventName, `{"message": "training complete"}`)

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("WaitFor did not return")
		}

		if waitErr != nil {
			t.Fatalf("WaitFor failed: %v", waitErr)
		}
		field, _ := got.Field("message")
		if !strings.Contains(string(field), "complete") {
			t.Errorf("WaitFor returned the wrong frame: %s", got.Message)
		}
		if mgr.ActiveCount() != 0 {
			t.Errorf("got %d active subscriptions after WaitFor, want 0", mgr.ActiveCount())
		}
	})

	t.Run("a canceled context unblocks it", func(t *testing.T) {
		server := newPubsubServer(t)
		mgr := NewManager(server.endpoint(), nil)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := mgr.WaitFor(ctx, NewSubscription(TouchSensor), 0, func(Event) bool { return false })
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v, want context.DeadlineExceeded", err)
		}
		if mgr.ActiveCount() != 0 {
			t.Errorf("got %d active subscriptions, want 0", mgr.ActiveCount())
		}
	})
}

func TestStream(t *testing.T) {
	server := newPubsubServer(t)
	mgr := NewManager(server.endpoint(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := mgr.Stream(ctx, NewSubscription(BumpSensor), 0)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	frame := server.recvFrame(t)

	server.sendEvent(t, frame.EventName, `{"isContacted": true}`)
	e := waitEvent(t, ch)
	if field, ok := e.Field("isContacted"); !ok || string(field) != "true" {
		t.Errorf("got isContacted %q, want true", field)
	}

	cancel()
	select {
	case _, open := <-ch:
		if open {
			t.Error("expected the channel to close after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("the channel never closed")
	}
}
