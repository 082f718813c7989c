package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		entity string
		action string
		want   string
	}{
		{EntityProduct, ActionCreated, "catalog.product.created"},
		{EntityVariant, ActionDeleted, "catalog.variant.deleted"},
		{EntityCollection, ActionLinked, "catalog.collection.linked"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject(tt.entity, tt.action))
	}
}

func TestNewCatalogEvent(t *testing.T) {
	event := NewCatalogEvent(EntityImage, ActionUpdated, "img-1", map[string]int{"position": 2})

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "image.updated", event.EventType)
	assert.Equal(t, "img-1", event.EntityID)
	assert.False(t, event.Timestamp.IsZero())

	other := NewCatalogEvent(EntityImage, ActionUpdated, "img-1", nil)
	assert.NotEqual(t, event.EventID, other.EventID)
}

func TestNilPublisher(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), NewCatalogEvent(EntityProduct, ActionDeleted, "p-1", nil))
		p.Close()
	})
}
