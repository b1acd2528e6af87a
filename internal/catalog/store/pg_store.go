package store

import (
	"context"
	"errors"
	"fmt"

	cerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements CategoryStore, ProductStore and OrderStore using
// PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new store instance using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// FindByID retrieves a category by its unique identifier.
// Returns ErrCategoryNotFound if no category exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*db.Category, error) {
	category, err := p.q.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return &category, nil
}

// FindAll retrieves all available categories with pagination support.
// It returns a slice of categories, which may be empty if no categories exist.
func (p *PgStore) FindAll(ctx context.Context, offset, limit int32) ([]db.Category, error) {
	categories, err := p.q.FindAllCategories(ctx, db.FindAllCategoriesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("failed to find all categories: %w", err)
	}
	return categories, nil
}

// Create adds a new category to the system.
// Returns ErrParentCategoryNotFound if the referenced parent does not exist.
func (p *PgStore) Create(ctx context.Context, name, slug string, parentID *uuid.UUID) (*db.Category, error) {
	category, err := p.q.CreateCategory(ctx, db.CreateCategoryParams{
		Name:     name,
		Slug:     slug,
		ParentID: parentID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, cerrors.ErrParentCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// CollectTreeProducts returns every product under the subtrees rooted at
// the given category ids.
func (p *PgStore) CollectTreeProducts(ctx context.Context, ids []uuid.UUID) ([]db.Product, error) {
	products, err := p.q.CollectTreeProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tree products: %w", err)
	}
	return products, nil
}

// DeleteCascade removes the given categories together with their descendants
// and products in a single transaction. The category rows are locked first so
// that concurrent deletions of overlapping subtrees serialize, then the
// subtree products are collected, their channel listings unpublished and the
// category rows deleted. Products and variants go away via ON DELETE CASCADE.
func (p *PgStore) DeleteCascade(ctx context.Context, ids []uuid.UUID) (*CascadeResult, error) {
	var result CascadeResult

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		locked, err := qtx.LockCategoriesByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to lock categories: %w", err)
		}
		if len(locked) != len(dedupe(ids)) {
			return cerrors.ErrCategoriesNotFound
		}

		products, err := qtx.CollectTreeProducts(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to collect tree products: %w", err)
		}

		var channelIDs []uuid.UUID
		if len(products) > 0 {
			productIDs := make([]uuid.UUID, 0, len(products))
			for _, product := range products {
				productIDs = append(productIDs, product.ID)
			}
			channelIDs, err = qtx.UnpublishListingsByProductIDs(ctx, productIDs)
			if err != nil {
				return fmt.Errorf("failed to unpublish listings: %w", err)
			}
		}

		deleted, err := qtx.DeleteCategoriesCascade(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}

		result = CascadeResult{
			Categories: locked,
			Products:   products,
			ChannelIDs: dedupe(channelIDs),
			Deleted:    deleted,
		}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	return &result, nil
}

// FindProductByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindProductByID(ctx context.Context, id uuid.UUID) (*db.Product, error) {
	product, err := p.q.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindAllProducts retrieves all available products with pagination support.
func (p *PgStore) FindAllProducts(ctx context.Context, offset, limit int32) ([]db.Product, error) {
	products, err := p.q.FindAllProducts(ctx, db.FindAllProductsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// FindVariantsByProduct returns the variants of a product, ordered by SKU.
func (p *PgStore) FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]db.ProductVariant, error) {
	variants, err := p.q.FindVariantsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find variants by product: %w", err)
	}
	return variants, nil
}

// FindVariantByID retrieves a variant by its unique identifier.
// Returns ErrVariantNotFound if no variant exists with the given ID.
func (p *PgStore) FindVariantByID(ctx context.Context, id uuid.UUID) (*db.ProductVariant, error) {
	variant, err := p.q.FindVariantByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant by ID: %w", err)
	}
	return &variant, nil
}

// IDsWithoutVariants narrows the given product ids to those without variants.
func (p *PgStore) IDsWithoutVariants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	result, err := p.q.ProductIDsWithoutVariants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find products without variants: %w", err)
	}
	return result, nil
}

// SetListingPublished flips the published flag of a product's channel listing.
// Returns ErrListingNotFound if no listing exists for the pair.
func (p *PgStore) SetListingPublished(ctx context.Context, productID, channelID uuid.UUID, published bool) (*db.ProductChannelListing, error) {
	listing, err := p.q.SetListingPublished(ctx, db.SetListingPublishedParams{
		ProductID:   productID,
		ChannelID:   channelID,
		IsPublished: published,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return &listing, nil
}

// FindLinesByVariant returns every order line referencing the variant in the
// given currency.
func (p *PgStore) FindLinesByVariant(ctx context.Context, variantID uuid.UUID, currency string) ([]db.OrderLine, error) {
	lines, err := p.q.FindOrderLinesByVariant(ctx, db.FindOrderLinesByVariantParams{
		VariantID: variantID,
		Currency:  currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find order lines by variant: %w", err)
	}
	return lines, nil
}

// FindOrdersByIDs returns the orders with the given ids.
func (p *PgStore) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Order, error) {
	orders, err := p.q.FindOrdersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders by IDs: %w", err)
	}
	return orders, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return cerrors.ErrTransactionBegin
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return cerrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return cerrors.ErrTransactionCommit
	}

	return nil
}

// dedupe returns the distinct ids preserving first-seen order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
