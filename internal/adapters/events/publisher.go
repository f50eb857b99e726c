package events

import (
	"context"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultSubjectPrefix roots every tick subject: <prefix>.<fleet>.ticks.
const DefaultSubjectPrefix = "elevator"

// NATSPublisher publishes each command batch as JSON on a per-fleet subject.
// With a stream configured the batches are persisted through JetStream,
// otherwise they are fire-and-forget core NATS messages.
type NATSPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	prefix string
	log    *slog.Logger
}

var _ ports.TickPublisher = (*NATSPublisher)(nil)

// Connect dials url with reconnects enabled.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(250*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}

func NewNATSPublisher(nc *nats.Conn, prefix string, log *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &NATSPublisher{nc: nc, prefix: prefix, log: log}
}

// NewJetStreamPublisher ensures stream captures <prefix>.> and publishes
// through it.
func NewJetStreamPublisher(ctx context.Context, nc *nats.Conn, stream, prefix string, log *slog.Logger) (*NATSPublisher, error) {
	p := NewNATSPublisher(nc, prefix, log)
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{p.prefix + ".>"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("jetstream stream %s: %w", stream, err)
	}
	p.js = js
	return p, nil
}

// Subject returns the subject ticks of fleet are published on.
func (p *NATSPublisher) Subject(fleet string) string {
	return p.prefix + "." + subjectToken(fleet) + ".ticks"
}

func (p *NATSPublisher) PublishTick(ctx context.Context, ev domain.TickEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish tick %d: encode: %w", ev.Tick, err)
	}
	subject := p.Subject(ev.Fleet)

	if p.js != nil {
		if _, err := p.js.Publish(ctx, subject, data); err != nil {
			return fmt.Errorf("publish tick %d on %s: %w", ev.Tick, subject, err)
		}
		return nil
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish tick %d on %s: %w", ev.Tick, subject, err)
	}
	return nil
}

// subjectToken makes a fleet name usable as a single subject token.
func subjectToken(s string) string {
	if s == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, s)
}

// NopPublisher drops every tick.
type NopPublisher struct{}

func (NopPublisher) PublishTick(context.Context, domain.TickEvent) error { return nil }
