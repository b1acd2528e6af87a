// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/store"
	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/abgdnv/catalog/pkg/money"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	"github.com/google/uuid"
)

// CatalogService defines the methods for managing the product catalog.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// FindCategoryByID retrieves a single category by its unique identifier.
	// Returns ErrCategoryNotFound if no category exists with the given ID.
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryDto, error)

	// FindAllCategories returns all available categories with pagination.
	FindAllCategories(ctx context.Context, offset, limit int32) (*[]CategoryDto, error)

	// CreateCategory adds a new category to the catalog.
	CreateCategory(ctx context.Context, category CategoryCreateDto) (*CategoryDto, error)

	// DeleteCategories removes the given categories, their descendants and
	// every product under them, unpublishing the affected channel listings.
	// Returns ErrCategoriesNotFound if any of the ids does not exist.
	DeleteCategories(ctx context.Context, ids []uuid.UUID) (*CategoriesDeletedDto, error)

	// FindTreeProducts returns every product under the subtree rooted at the
	// given category. Returns ErrCategoryNotFound if the category does not exist.
	FindTreeProducts(ctx context.Context, categoryID uuid.UUID) (*[]ProductDto, error)

	// FindProductByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// FindAllProducts returns all available products with pagination.
	FindAllProducts(ctx context.Context, offset, limit int32) (*[]ProductDto, error)

	// FindVariantsByProduct returns the variants of a product.
	// Returns ErrProductNotFound if the product does not exist.
	FindVariantsByProduct(ctx context.Context, productID uuid.UUID) (*[]VariantDto, error)

	// ProductsWithoutVariants narrows the given product ids to those that
	// cannot be sold because they have no variants.
	ProductsWithoutVariants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// SetListingPublished publishes or unpublishes a product in a channel.
	// Returns ErrListingNotFound if the listing does not exist.
	SetListingPublished(ctx context.Context, productID, channelID uuid.UUID, published bool) (*ListingDto, error)

	// VariantRevenue reports the revenue of a variant in the given currency
	// over orders placed at or after start.
	// Returns ErrVariantNotFound if the variant does not exist.
	VariantRevenue(ctx context.Context, variantID uuid.UUID, start time.Time, currency string) (*RevenueDto, error)
}

// Service implements CatalogService.
type Service struct {
	categoryStore      store.CategoryStore
	productStore       store.ProductStore
	orderStore         store.OrderStore
	publisher          messaging.Publisher
	deletedCounter     metric.Int64Counter
	unpublishedCounter metric.Int64Counter
}

// NewService creates a new instance of CatalogService with the provided stores.
func NewService(categoryStore store.CategoryStore, productStore store.ProductStore, orderStore store.OrderStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("catalog-service")
	deletedCounter, err := meter.Int64Counter("categories_deleted", metric.WithDescription("Total number of deleted categories"))
	if err != nil {
		panic(fmt.Sprintf("failed to create categories_deleted counter: %v", err))
	}
	unpublishedCounter, err := meter.Int64Counter("listings_unpublished", metric.WithDescription("Total number of unpublished channel listings"))
	if err != nil {
		panic(fmt.Sprintf("failed to create listings_unpublished counter: %v", err))
	}
	return &Service{
		categoryStore:      categoryStore,
		productStore:       productStore,
		orderStore:         orderStore,
		publisher:          publisher,
		deletedCounter:     deletedCounter,
		unpublishedCounter: unpublishedCounter,
	}
}

// CategoryDto represents the data transfer object for a category.
type CategoryDto struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt string     `json:"created_at"`
}

// CategoryCreateDto represents the data transfer object for creating a new category.
type CategoryCreateDto struct {
	Name     string     `json:"name" validate:"required"`
	Slug     string     `json:"slug" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// CategoriesDeletedDto summarizes a cascade deletion.
type CategoriesDeletedDto struct {
	DeletedCategories int64       `json:"deleted_categories"`
	AffectedProducts  int         `json:"affected_products"`
	ChannelIDs        []uuid.UUID `json:"channel_ids"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  string    `json:"created_at"`
}

// VariantDto represents the data transfer object for a product variant.
type VariantDto struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Sku       string    `json:"sku"`
	Name      string    `json:"name"`
}

// ListingDto represents the data transfer object for a product channel listing.
type ListingDto struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ChannelID   uuid.UUID `json:"channel_id"`
	IsPublished bool      `json:"is_published"`
	PublishedAt *string   `json:"published_at,omitempty"`
}

// RevenueDto represents the revenue of a variant over a reporting window.
type RevenueDto struct {
	VariantID uuid.UUID        `json:"variant_id"`
	Start     string           `json:"start"`
	Revenue   money.TaxedMoney `json:"revenue"`
}

// FindCategoryByID retrieves a category by its ID and returns it as a CategoryDto.
func (s *Service) FindCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryDto, error) {
	category, err := s.categoryStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryDto(category), nil
}

// FindAllCategories retrieves a list of categories and returns them as CategoryDtos.
func (s *Service) FindAllCategories(ctx context.Context, offset, limit int32) (*[]CategoryDto, error) {
	categories, err := s.categoryStore.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	categoryDtos := make([]CategoryDto, len(categories))
	for i, category := range categories {
		categoryDtos[i] = *toCategoryDto(&category)
	}
	return &categoryDtos, nil
}

// CreateCategory creates a new category and returns it as a CategoryDto.
func (s *Service) CreateCategory(ctx context.Context, create CategoryCreateDto) (*CategoryDto, error) {
	category, err := s.categoryStore.Create(ctx, create.Name, create.Slug, create.ParentID)
	if err != nil {
		return nil, err
	}
	return toCategoryDto(category), nil
}

// DeleteCategories removes the given categories and everything under them.
// The database work runs in a single transaction; the domain events are
// published only after it committed. A failed publish is logged, not rolled
// back, since the deletion is already durable at that point.
func (s *Service) DeleteCategories(ctx context.Context, ids []uuid.UUID) (*CategoriesDeletedDto, error) {
	if len(ids) == 0 {
		return nil, cerrors.ErrCategoriesNotFound
	}

	result, err := s.categoryStore.DeleteCascade(ctx, ids)
	if err != nil {
		return nil, err
	}

	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	now := time.Now().UTC()

	for _, category := range result.Categories {
		event := events.CategoryDeletedEvent{
			Carrier:    carrier,
			CategoryID: category.ID,
			Name:       category.Name,
			Slug:       category.Slug,
			DeletedAt:  now,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish CategoryDeletedEvent", "category_id", category.ID, "error", err)
		}
	}

	for _, product := range result.Products {
		event := events.ProductUpdatedEvent{
			Carrier:    carrier,
			ProductID:  product.ID,
			Name:       product.Name,
			Slug:       product.Slug,
			CategoryID: product.CategoryID,
			UpdatedAt:  now,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ProductUpdatedEvent", "product_id", product.ID, "error", err)
		}
	}

	if len(result.ChannelIDs) > 0 {
		event := events.PromotionRulesDirtyEvent{
			Carrier:    carrier,
			ChannelIDs: result.ChannelIDs,
			MarkedAt:   now,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish PromotionRulesDirtyEvent", "error", err)
		}
	}

	s.deletedCounter.Add(ctx, result.Deleted)
	s.unpublishedCounter.Add(ctx, int64(len(result.ChannelIDs)))

	return &CategoriesDeletedDto{
		DeletedCategories: result.Deleted,
		AffectedProducts:  len(result.Products),
		ChannelIDs:        result.ChannelIDs,
	}, nil
}

// FindTreeProducts returns every product under the subtree rooted at the
// given category as ProductDtos.
func (s *Service) FindTreeProducts(ctx context.Context, categoryID uuid.UUID) (*[]ProductDto, error) {
	// Verify the root exists so an unknown id is a 404, not an empty list.
	if _, err := s.categoryStore.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	products, err := s.categoryStore.CollectTreeProducts(ctx, []uuid.UUID{categoryID})
	if err != nil {
		return nil, err
	}
	productDtos := make([]ProductDto, len(products))
	for i, product := range products {
		productDtos[i] = *toProductDto(&product)
	}
	return &productDtos, nil
}

// FindProductByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.productStore.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDto(product), nil
}

// FindAllProducts retrieves a list of products and returns them as ProductDtos.
func (s *Service) FindAllProducts(ctx context.Context, offset, limit int32) (*[]ProductDto, error) {
	products, err := s.productStore.FindAllProducts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	productDtos := make([]ProductDto, len(products))
	for i, product := range products {
		productDtos[i] = *toProductDto(&product)
	}
	return &productDtos, nil
}

// FindVariantsByProduct returns the variants of a product as VariantDtos.
func (s *Service) FindVariantsByProduct(ctx context.Context, productID uuid.UUID) (*[]VariantDto, error) {
	if _, err := s.productStore.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}

	variants, err := s.productStore.FindVariantsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	variantDtos := make([]VariantDto, len(variants))
	for i, variant := range variants {
		variantDtos[i] = VariantDto{
			ID:        variant.ID,
			ProductID: variant.ProductID,
			Sku:       variant.Sku,
			Name:      variant.Name,
		}
	}
	return &variantDtos, nil
}

// ProductsWithoutVariants narrows the given ids to products without variants.
func (s *Service) ProductsWithoutVariants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	return s.productStore.IDsWithoutVariants(ctx, ids)
}

// SetListingPublished publishes or unpublishes a product in a channel and
// returns the updated listing.
func (s *Service) SetListingPublished(ctx context.Context, productID, channelID uuid.UUID, published bool) (*ListingDto, error) {
	listing, err := s.productStore.SetListingPublished(ctx, productID, channelID, published)
	if err != nil {
		return nil, err
	}
	return toListingDto(listing), nil
}

// VariantRevenue sums the totals of order lines referencing the variant over
// orders placed at or after start, in the given currency.
func (s *Service) VariantRevenue(ctx context.Context, variantID uuid.UUID, start time.Time, currency string) (*RevenueDto, error) {
	if _, err := s.productStore.FindVariantByID(ctx, variantID); err != nil {
		return nil, err
	}

	lines, err := s.orderStore.FindLinesByVariant(ctx, variantID, currency)
	if err != nil {
		return nil, err
	}

	ordersByID := make(map[uuid.UUID]db.Order)
	if len(lines) > 0 {
		orderIDs := make([]uuid.UUID, 0, len(lines))
		seen := make(map[uuid.UUID]struct{}, len(lines))
		for _, line := range lines {
			if _, ok := seen[line.OrderID]; ok {
				continue
			}
			seen[line.OrderID] = struct{}{}
			orderIDs = append(orderIDs, line.OrderID)
		}
		orders, err := s.orderStore.FindOrdersByIDs(ctx, orderIDs)
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			ordersByID[order.ID] = order
		}
	}

	revenue, err := sumVariantRevenue(lines, ordersByID, start, currency)
	if err != nil {
		return nil, err
	}

	return &RevenueDto{
		VariantID: variantID,
		Start:     start.Format(time.RFC3339),
		Revenue:   revenue,
	}, nil
}

// sumVariantRevenue adds up the taxed totals of the lines whose order was
// placed at or after start. Every line must resolve to a known order,
// otherwise ErrOrderMissingForLine is returned.
func sumVariantRevenue(lines []db.OrderLine, ordersByID map[uuid.UUID]db.Order, start time.Time, currency string) (money.TaxedMoney, error) {
	revenue := money.TaxedZero(currency)
	for _, line := range lines {
		order, ok := ordersByID[line.OrderID]
		if !ok {
			return money.TaxedMoney{}, cerrors.ErrOrderMissingForLine
		}
		if order.CreatedAt.Before(start) {
			continue
		}
		total := money.NewTaxed(line.TotalNetAmount, line.TotalGrossAmount, line.Currency)
		var err error
		revenue, err = revenue.Add(total)
		if err != nil {
			return money.TaxedMoney{}, err
		}
	}
	return revenue, nil
}

// toCategoryDto converts a db.Category to a CategoryDto.
func toCategoryDto(category *db.Category) *CategoryDto {
	if category == nil {
		return nil
	}
	return &CategoryDto{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		ParentID:  category.ParentID,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
	}
}

// toProductDto converts a db.Product to a ProductDto.
func toProductDto(product *db.Product) *ProductDto {
	if product == nil {
		return nil
	}
	return &ProductDto{
		ID:         product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		CategoryID: product.CategoryID,
		CreatedAt:  product.CreatedAt.Format(time.RFC3339),
	}
}

// toListingDto converts a db.ProductChannelListing to a ListingDto.
func toListingDto(listing *db.ProductChannelListing) *ListingDto {
	if listing == nil {
		return nil
	}
	var publishedAt *string
	if listing.PublishedAt != nil {
		formatted := listing.PublishedAt.Format(time.RFC3339)
		publishedAt = &formatted
	}
	return &ListingDto{
		ID:          listing.ID,
		ProductID:   listing.ProductID,
		ChannelID:   listing.ChannelID,
		IsPublished: listing.IsPublished,
		PublishedAt: publishedAt,
	}
}
