package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/copilette/misty/internal/shared"
)

// Event is a single frame from a live subscription.
type Event struct {
	Name     string          // event name echoed back by the firmware
	Type     Type            // category the subscription was made under
	Received time.Time
	Message  json.RawMessage // the frame's message payload
}

// Scalar decodes the message as a bare number, which is what subscriptions
// with a ReturnProperty deliver.
func (e Event) Scalar() (float64, bool) {
	var v float64
	if err := json.Unmarshal(e.Message, &v); err != nil {
		return 0, false
	}
	return v, true
}

// Field extracts a single named property from the message payload.
func (e Event) Field(name string) (json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(e.Message, &m); err != nil {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

// Handler consumes events from a live subscription. Handlers run on the
// subscription's read loop, so a slow handler delays later frames for that
// subscription only.
type Handler func(Event)

// Token identifies a live subscription for unsubscribing.
type Token struct {
	ID        int
	EventName string
	Sub       Subscription
}

type registration struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns the pubsub registrations. The firmware routes frames by event
// name and expects one socket per registration, so each Subscribe dials its
// own connection.
type Manager struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger

	mu     sync.Mutex
	nextID int
	active map[string]*registration
}

// NewManager creates a subscription manager for the pubsub socket at
// endpoint (a ws:// URL). A nil client falls back to [http.DefaultClient].
func NewManager(endpoint string, client *http.Client) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{
		endpoint:   endpoint,
		httpClient: client,
		logger:     shared.NewLogger(nil),
		active:     make(map[string]*registration),
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// subscribeFrame is the registration message the firmware expects.
type subscribeFrame struct {
	Operation       string              `json:"Operation"`
	Type            string              `json:"Type"`
	DebounceMS      int                 `json:"DebounceMS"`
	EventName       string              `json:"EventName"`
	EventConditions []map[string]string `json:"EventConditions,omitempty"`
	ReturnProperty  string              `json:"ReturnProperty,omitempty"`
}

type unsubscribeFrame struct {
	Operation string `json:"Operation"`
	EventName string `json:"EventName"`
}

// eventFrame is what the firmware sends back on a registered socket. The
// message is an object for real events and a plain string for the
// registration acknowledgement.
type eventFrame struct {
	EventName string          `json:"eventName"`
	Message   json.RawMessage `json:"message"`
}

// Subscribe registers sub on its own socket and dispatches incoming frames
// to handler until Unsubscribe is called or the connection drops. The
// returned token's event name is unique across the manager's lifetime so the
// firmware can route the matching unsubscribe.
func (m *Manager) Subscribe(ctx context.Context, sub Subscription, handler Handler, debounceMS int) (*Token, error) {
	if debounceMS <= 0 {
		debounceMS = 250
	}

	m.mu.Lock()
	m.nextID++
	token := &Token{
		ID:        m.nextID,
		EventName: fmt.Sprintf("%s-%04d", sub, m.nextID),
		Sub:       sub,
	}
	m.mu.Unlock()

	conn, _, err := websocket.Dial(ctx, m.endpoint, &websocket.DialOptions{
		HTTPClient: m.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("dial pubsub socket: %w", err)
	}
	// SelfState and WorldState frames can be large
	conn.SetReadLimit(1 << 22)

	frame := subscribeFrame{
		Operation:      "subscribe",
		Type:           string(sub.Type),
		DebounceMS:     debounceMS,
		EventName:      token.EventName,
		ReturnProperty: sub.ReturnProperty,
	}
	for _, c := range sub.Conditions {
		frame.EventConditions = append(frame.EventConditions, c.payload())
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "encode subscribe")
		return nil, fmt.Errorf("failed to marshal subscribe frame: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		conn.Close(websocket.StatusInternalError, "send subscribe")
		return nil, fmt.Errorf("failed to send subscribe frame: %w", err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	reg := &registration{conn: conn, cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	m.active[token.EventName] = reg
	m.mu.Unlock()

	m.logger.Debug("subscribed", "event", token.EventName)
	go m.pump(readCtx, reg, token, handler)

	return token, nil
}

// pump reads frames from one socket and dispatches them until the context is
// canceled or the connection drops.
func (m *Manager) pump(ctx context.Context, reg *registration, token *Token, handler Handler) {
	defer close(reg.done)

	for {
		_, data, err := reg.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Debug("subscription closed", "event", token.EventName, "err", err)
				m.drop(token.EventName)
			}
			return
		}

		var frame eventFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			m.logger.Warn("unparseable event frame", "event", token.EventName, "err", err)
			continue
		}

		// the firmware acknowledges a new registration with a plain string
		var ack string
		if json.Unmarshal(frame.Message, &ack) == nil {
			m.logger.Debug("registration ack", "event", token.EventName, "message", ack)
			continue
		}

		handler(Event{
			Name:     frame.EventName,
			Type:     token.Sub.Type,
			Received: time.Now(),
			Message:  frame.Message,
		})
	}
}

func (m *Manager) drop(eventName string) *registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.active[eventName]
	delete(m.active, eventName)
	return reg
}

// Unsubscribe tells the firmware to stop the stream and closes the socket.
// Returns [shared.ErrSubscriptionClosed] if the token is not live.
func (m *Manager) Unsubscribe(ctx context.Context, token *Token) error {
	reg := m.drop(token.EventName)
	if reg == nil {
		return fmt.Errorf("%w: %s", shared.ErrSubscriptionClosed, token.EventName)
	}

	payload, err := json.Marshal(unsubscribeFrame{Operation: "unsubscribe", EventName: token.EventName})
	if err == nil {
		if werr := reg.conn.Write(ctx, websocket.MessageText, payload); werr != nil {
			m.logger.Debug("unsubscribe frame not sent", "event", token.EventName, "err", werr)
		}
	}

	reg.cancel()
	reg.conn.Close(websocket.StatusNormalClosure, "unsubscribed")
	<-reg.done

	m.logger.Debug("unsubscribed", "event", token.EventName)
	return nil
}

// Close unsubscribes everything that is still live.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	names := make([]string, 0, len(m.active))
	for name := range m.active {
		names = append(names, name)
	}
	m.mu.Unlock()

	var firstErr error
	for _, name := range names {
		err := m.Unsubscribe(ctx, &Token{EventName: name})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ActiveCount reports how many subscriptions are live.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
