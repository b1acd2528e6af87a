package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

type CategoryDeletedEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	CategoryID uuid.UUID              `json:"category_id"`
	Name       string                 `json:"name"`
	Slug       string                 `json:"slug"`
	DeletedAt  time.Time              `json:"deleted_at"`
}

func (c CategoryDeletedEvent) Subject() string {
	return messaging.CategoryDeletedSubject
}

func (c CategoryDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(c)
}
