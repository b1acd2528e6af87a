package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

type ProductUpdatedEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID  uuid.UUID              `json:"product_id"`
	Name       string                 `json:"name"`
	Slug       string                 `json:"slug"`
	CategoryID uuid.UUID              `json:"category_id"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func (p ProductUpdatedEvent) Subject() string {
	return messaging.ProductUpdatedSubject
}

func (p ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(p)
}
