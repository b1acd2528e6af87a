// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	cerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service  service.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(service service.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// CategoriesDeleteRequest carries the ids of the categories to delete.
type CategoriesDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,gt=0"`
}

// ProductsWithoutVariantsRequest carries the product ids to check.
type ProductsWithoutVariantsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,gt=0"`
}

// ListingUpdateRequest carries the desired published state of a listing.
type ListingUpdateRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", h.FindAllCategories)
		r.Post("/", h.CreateCategory)
		r.Delete("/", h.DeleteCategories)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindCategoryByID)
			r.Get("/products", h.FindTreeProducts)
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAllProducts)
		r.Post("/without-variants", h.ProductsWithoutVariants)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindProductByID)
			r.Get("/variants", h.FindVariantsByProduct)
			r.Put("/listings/{channelID}", h.SetListingPublished)
		})
	})

	r.Get("/api/v1/variants/{id}/revenue", h.VariantRevenue)

	r.Get("/healthz", h.HealthCheck)
}

// FindCategoryByID retrieves a category by its ID.
func (h *Handler) FindCategoryByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find category by ID", "ID", id)
	found, err := h.service.FindCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrCategoryNotFound) {
			mLogger.WarnContext(r.Context(), "Category not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Category with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving category", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve category with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAllCategories retrieves a list of all categories.
func (h *Handler) FindAllCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to find all categories", "limit", limit, "offset", offset)
	list, err := h.service.FindAllCategories(r.Context(), offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving category list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// CreateCategory handles the creation of a new category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var createDto service.CategoryCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, createDto) {
		return
	}

	created, err := h.service.CreateCategory(r.Context(), createDto)
	if err != nil {
		if errors.Is(err, cerrors.ErrParentCategoryNotFound) {
			mLogger.WarnContext(r.Context(), "Parent category not found", "parent_id", createDto.ParentID)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Parent category does not exist")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating category", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create category")
		return
	}
	mLogger.InfoContext(r.Context(), "Category created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// DeleteCategories removes the given categories together with their subtrees.
func (h *Handler) DeleteCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req CategoriesDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to delete categories", "ids", req.IDs)
	deleted, err := h.service.DeleteCategories(r.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, cerrors.ErrCategoriesNotFound) {
			mLogger.WarnContext(r.Context(), "One or more categories not found", "ids", req.IDs)
			web.RespondError(w, mLogger, http.StatusNotFound, "One or more categories not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting categories", "ids", req.IDs, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete categories")
		return
	}
	mLogger.InfoContext(r.Context(), "Categories deleted successfully",
		"deleted", deleted.DeletedCategories, "products", deleted.AffectedProducts)
	web.RespondJSON(w, mLogger, http.StatusOK, deleted)
}

// FindTreeProducts lists every product under the subtree rooted at a category.
func (h *Handler) FindTreeProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to collect tree products", "ID", id)
	products, err := h.service.FindTreeProducts(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrCategoryNotFound) {
			mLogger.WarnContext(r.Context(), "Category not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Category with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error collecting tree products", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to collect tree products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, products)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAllProducts retrieves a list of all products.
func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}
	list, err := h.service.FindAllProducts(r.Context(), offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindVariantsByProduct lists the variants of a product.
func (h *Handler) FindVariantsByProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	variants, err := h.service.FindVariantsByProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving variants", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch variants")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, variants)
}

// ProductsWithoutVariants narrows the posted product ids to those without variants.
func (h *Handler) ProductsWithoutVariants(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req ProductsWithoutVariantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	ids, err := h.service.ProductsWithoutVariants(r.Context(), req.IDs)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error finding products without variants", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to find products without variants")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string][]uuid.UUID{"ids": ids})
}

// SetListingPublished publishes or unpublishes a product in a channel.
func (h *Handler) SetListingPublished(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	productID, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	channelID, ok := web.ParsePathID(w, r, mLogger, "channelID")
	if !ok {
		return
	}

	var req ListingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	listing, err := h.service.SetListingPublished(r.Context(), productID, channelID, *req.IsPublished)
	if err != nil {
		if errors.Is(err, cerrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found", "product_id", productID, "channel_id", channelID)
			web.RespondError(w, mLogger, http.StatusNotFound, "Listing not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating listing", "product_id", productID, "channel_id", channelID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	mLogger.InfoContext(r.Context(), "Listing updated successfully",
		"product_id", productID, "channel_id", channelID, "is_published", listing.IsPublished)
	web.RespondJSON(w, mLogger, http.StatusOK, listing)
}

// VariantRevenue reports the revenue of a variant since a given start time.
func (h *Handler) VariantRevenue(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	startParam := r.URL.Query().Get("start")
	start, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid start parameter: %s", startParam))
		return
	}
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "currency url parameter is required")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request for variant revenue", "ID", id, "start", start, "currency", currency)
	revenue, err := h.service.VariantRevenue(r.Context(), id, start, currency)
	if err != nil {
		if errors.Is(err, cerrors.ErrVariantNotFound) {
			mLogger.WarnContext(r.Context(), "Variant not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Variant with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error calculating variant revenue", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to calculate variant revenue")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, revenue)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct validates the decoded body and writes the error response on
// failure. Returns true when the value passed validation.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, value any) bool {
	if err := h.validate.Struct(value); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// If the error is a validation error, we can extract field-specific errors.
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
