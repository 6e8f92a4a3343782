// Package events publishes marketplace notifications (mints, checkouts,
// gateway payments) to NATS subjects.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectTokensMinted      = "cbt.onramp.minted"
	SubjectCheckoutCompleted = "cbt.checkout.completed"
	SubjectCheckoutFailed    = "cbt.checkout.failed"
	SubjectGatewayPaid       = "cbt.gateway.paid"
	SubjectVIPPurchased      = "cbt.seller.vip"
)

// Publisher emits an event payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Envelope wraps every payload put on the wire.
type Envelope struct {
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Noop drops events; used when NATS_URL is not configured.
var Noop Publisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

// NATSPublisher publishes JSON envelopes on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
	now  func() time.Time
}

// NewNATSPublisher wraps an established connection. Caller owns the connection.
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn, now: time.Now}
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload any) error {
	if p == nil || p.conn == nil {
		return fmt.Errorf("nats publisher not configured")
	}
	data, err := encode(subject, payload, p.now())
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func encode(subject string, payload any, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", subject, err)
	}
	return json.Marshal(Envelope{Subject: subject, OccurredAt: now.UTC(), Payload: raw})
}

// Connect dials NATS and returns a publisher plus cleanup. Without a URL, or
// when the server is unreachable, events are dropped.
func Connect(url, clientName string, logger *slog.Logger) (Publisher, func()) {
	if strings.TrimSpace(url) == "" {
		return Noop, func() {}
	}
	conn, err := nats.Connect(url, nats.Name(clientName), nats.MaxReconnects(-1))
	if err != nil {
		if logger != nil {
			logger.Warn("NATS unavailable, marketplace events will be dropped", slog.String("error", err.Error()))
		}
		return Noop, func() {}
	}
	if logger != nil {
		logger.Info("NATS publisher connected", slog.String("url", conn.ConnectedUrl()))
	}
	return NewNATSPublisher(conn), func() { _ = conn.Drain() }
}

// Recorder keeps published envelopes in memory for tests and local inspection.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, subject string, payload any) error {
	data, err := encode(subject, payload, time.Now())
	if err != nil {
		return err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, env)
	r.mu.Unlock()
	return nil
}

// Subjects returns the subjects published so far, in order.
func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, env := range r.events {
		out = append(out, env.Subject)
	}
	return out
}

// Events returns a copy of the recorded envelopes.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

// PublishQuietly publishes and logs failures instead of returning them.
// Notifications never fail the operation that produced them.
func PublishQuietly(ctx context.Context, p Publisher, logger *slog.Logger, subject string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, payload); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to publish event", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}
