// Package events publishes catalog change notifications to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

const (
	// StreamCatalog holds every catalog.> subject
	StreamCatalog = "CATALOG"

	subjectPrefix  = "catalog"
	publishTimeout = 5 * time.Second
)

// Entity kinds
const (
	EntityProduct    = "product"
	EntityVariant    = "variant"
	EntityImage      = "image"
	EntityCollection = "collection"
)

// Actions
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionLinked   = "linked"
	ActionUnlinked = "unlinked"
)

// CatalogEvent is the payload published for each catalog write
type CatalogEvent struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType"`
	Entity    string      `json:"entity"`
	Action    string      `json:"action"`
	EntityID  string      `json:"entityId"`
	ProductID string      `json:"productId,omitempty"`
	ActorID   string      `json:"actorId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Subject returns the subject an entity/action pair is published on
func Subject(entity, action string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, entity, action)
}

// NewCatalogEvent builds an event with a fresh id and timestamp
func NewCatalogEvent(entity, action, entityID string, data interface{}) *CatalogEvent {
	return &CatalogEvent{
		EventID:   uuid.NewString(),
		EventType: entity + "." + action,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher sends catalog events. A nil *Publisher is valid and drops
// every event, which is how the service runs without NATS_URL.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to natsURL and makes sure the CATALOG stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	entry := logger.WithField("component", "catalog-events")

	nc, err := nats.Connect(natsURL,
		nats.Name("shoe-catalog-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			entry.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			entry.WithError(err).Warn("NATS disconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamCatalog,
		Subjects:  []string{subjectPrefix + ".>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		entry.WithError(err).Warn("Failed to ensure catalog stream (may already exist)")
	}

	return &Publisher{nc: nc, js: js, logger: entry}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

// Publish sends the event in the background. Failures are logged and never
// reach the caller; the write that triggered the event has already committed.
func (p *Publisher) Publish(ctx context.Context, event *CatalogEvent) {
	if p == nil || event == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("event_type", event.EventType).Error("Failed to encode catalog event")
		return
	}
	subject := Subject(event.Entity, event.Action)

	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if _, err := p.js.Publish(pubCtx, subject, data, jetstream.WithMsgID(event.EventID)); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"subject":   subject,
				"entity_id": event.EntityID,
			}).Warn("Failed to publish catalog event")
			return
		}
		p.logger.WithField("subject", subject).Debug("Catalog event published")
	}()
}
