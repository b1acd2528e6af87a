package messaging

import (
	"context"
)

// Subjects for catalog events.
const (
	CategoryDeletedSubject     = "catalog.category.deleted"
	ProductUpdatedSubject      = "catalog.product.updated"
	PromotionRulesDirtySubject = "catalog.promotion.rules_dirty"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
