package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

// PromotionRulesDirtyEvent tells promotion consumers to recalculate the
// rules of the listed channels after catalog contents changed.
type PromotionRulesDirtyEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ChannelIDs []uuid.UUID            `json:"channel_ids"`
	MarkedAt   time.Time              `json:"marked_at"`
}

func (p PromotionRulesDirtyEvent) Subject() string {
	return messaging.PromotionRulesDirtySubject
}

func (p PromotionRulesDirtyEvent) Payload() ([]byte, error) {
	return json.Marshal(p)
}
