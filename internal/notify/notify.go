// Package notify publishes page-save events for external consumers (cache
// invalidators, search indexers). Publishing is best-effort and strictly
// after the save pipeline has committed; a failed publish never fails a save.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/logfields"
)

// PageSaved is emitted after a successful save pipeline run.
type PageSaved struct {
	EventID      string    `json:"event_id"`
	Department   string    `json:"department"`
	CourseNumber int       `json:"course_number"`
	Term         string    `json:"term"`
	Year         int       `json:"year"`
	PageType     string    `json:"page_type"`
	Slug         string    `json:"slug"`
	Commit       string    `json:"commit"`
	Author       string    `json:"author"`
	SavedAt      time.Time `json:"saved_at"`
}

// Publisher emits save events.
type Publisher interface {
	PublishPageSaved(ctx context.Context, ev PageSaved) error
	Close()
}

// NoopPublisher drops all events (default when events are not configured).
type NoopPublisher struct{}

func (NoopPublisher) PublishPageSaved(context.Context, PageSaved) error { return nil }
func (NoopPublisher) Close()                                            {}

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS and returns a publisher for the subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("wikistore"))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishPageSaved publishes the event as JSON. A missing event id is filled
// in so downstream consumers can deduplicate.
func (p *NATSPublisher) PublishPageSaved(_ context.Context, ev PageSaved) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.SavedAt.IsZero() {
		ev.SavedAt = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.EncodeFailed("page-saved event", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	slog.Debug("Published page-saved event",
		logfields.Subject(p.subject),
		logfields.EventID(ev.EventID),
		logfields.Slug(ev.Slug),
		logfields.Commit(ev.Commit))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
