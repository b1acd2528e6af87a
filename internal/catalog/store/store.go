// Package store provides an interface for catalog storage operations.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/google/uuid"
)

// CascadeResult describes the outcome of a category cascade deletion:
// the roots that were removed, every product that lived in their
// subtrees, the distinct channels whose listings were unpublished and
// the total number of deleted category rows.
type CascadeResult struct {
	Categories []db.Category
	Products   []db.Product
	ChannelIDs []uuid.UUID
	Deleted    int64
}

// CategoryStore is an interface for category storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type CategoryStore interface {
	// FindByID retrieves a single category by its unique identifier.
	// Returns ErrCategoryNotFound if no category exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*db.Category, error)

	// FindAll retrieves all available categories with pagination support.
	// Returns an empty slice if no categories exist.
	FindAll(ctx context.Context, offset, limit int32) ([]db.Category, error)

	// Create adds a new category, optionally attached to a parent.
	// Returns ErrParentCategoryNotFound if the parent does not exist.
	Create(ctx context.Context, name, slug string, parentID *uuid.UUID) (*db.Category, error)

	// CollectTreeProducts returns every product whose category lies in one
	// of the subtrees rooted at the given ids, without duplicates.
	CollectTreeProducts(ctx context.Context, ids []uuid.UUID) ([]db.Product, error)

	// DeleteCascade removes the given categories together with their
	// descendants and products, unpublishing the affected channel listings
	// on the way. The whole operation runs in a single transaction.
	// Returns ErrCategoriesNotFound if any of the ids does not exist.
	DeleteCascade(ctx context.Context, ids []uuid.UUID) (*CascadeResult, error)
}

// ProductStore is an interface for product, variant and listing storage operations.
type ProductStore interface {
	// FindProductByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*db.Product, error)

	// FindAllProducts retrieves all available products with pagination support.
	FindAllProducts(ctx context.Context, offset, limit int32) ([]db.Product, error)

	// FindVariantsByProduct returns the variants of a product, ordered by SKU.
	FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]db.ProductVariant, error)

	// FindVariantByID retrieves a single variant by its unique identifier.
	// Returns ErrVariantNotFound if no variant exists with the given ID.
	FindVariantByID(ctx context.Context, id uuid.UUID) (*db.ProductVariant, error)

	// IDsWithoutVariants narrows the given product ids to those that have
	// no variants. Unknown ids are dropped from the result.
	IDsWithoutVariants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// SetListingPublished flips the published flag of a product's listing
	// in a channel. Returns ErrListingNotFound if the listing does not exist.
	SetListingPublished(ctx context.Context, productID, channelID uuid.UUID, published bool) (*db.ProductChannelListing, error)
}

// OrderStore is a read-only interface over order data, used for revenue reporting.
type OrderStore interface {
	// FindLinesByVariant returns every order line that references the given
	// variant in the given currency.
	FindLinesByVariant(ctx context.Context, variantID uuid.UUID, currency string) ([]db.OrderLine, error)

	// FindOrdersByIDs returns the orders with the given ids.
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Order, error)
}
