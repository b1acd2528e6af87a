package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	cerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// CatalogStoreSuite is a test suite for the PgStore implementation.
type CatalogStoreSuite struct {
	suite.Suite                             // Embedding testify suite for structured testing
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool for integration tests
	store       *PgStore                    //
	logger      *slog.Logger                // Logger for the test suite
	ctx         context.Context             // Context for the test suite, used for cancellation and timeouts
}

// SetupSuite initializes the test suite by setting up a PostgreSQL container.
func (s *CatalogStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "catalog_db"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		// Ensure the container is ready to accept connections on the default PostgreSQL port.
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. create a new pgxpool instance using the connection string
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	// 3.1 Ping the database to ensure the connection is established
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Database migration
	// Build path to migrations directory
	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../../db/migrations")
	sourceURL := "file://" + migrationsPath
	// Create a new migrate instance with the source URL and connection string
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	// Apply all available migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for CatalogStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *CatalogStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info("DB pool closed.")
	}
	if s.pgContainer != nil {
		s.logger.Info("Terminating PostgreSQL container...")
		err := s.pgContainer.Terminate(s.ctx)
		if err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		} else {
			s.logger.Info("PostgreSQL container terminated.")
		}
	}
}

// SetupTest prepares the database for each test by truncating all tables.
func (s *CatalogStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE order_lines, orders, product_channel_listings, channels, product_variants, products, categories RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// TestCatalogStoreIntegration runs the PgStore integration tests.
func TestCatalogStoreIntegration(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// Run the test suite
	suite.Run(t, new(CatalogStoreSuite))
}

// createTestCategory is a helper to create a category for testing purposes.
func (s *CatalogStoreSuite) createTestCategory(name, slug string, parentID *uuid.UUID) *db.Category {
	s.T().Helper()
	category, err := s.store.Create(s.ctx, name, slug, parentID)
	require.NoError(s.T(), err, "createTestCategory helper failed to create category")
	return category
}

// createTestProduct is a helper to insert a product row directly.
func (s *CatalogStoreSuite) createTestProduct(name, slug string, categoryID uuid.UUID) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO products (name, slug, category_id) VALUES ($1, $2, $3) RETURNING id",
		name, slug, categoryID).Scan(&id)
	require.NoError(s.T(), err, "createTestProduct helper failed to insert product")
	return id
}

// createTestVariant is a helper to insert a product variant row directly.
func (s *CatalogStoreSuite) createTestVariant(productID uuid.UUID, sku, name string) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO product_variants (product_id, sku, name) VALUES ($1, $2, $3) RETURNING id",
		productID, sku, name).Scan(&id)
	require.NoError(s.T(), err, "createTestVariant helper failed to insert variant")
	return id
}

// createTestChannel is a helper to insert a channel row directly.
func (s *CatalogStoreSuite) createTestChannel(slug, currency string) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO channels (slug, currency_code) VALUES ($1, $2) RETURNING id",
		slug, currency).Scan(&id)
	require.NoError(s.T(), err, "createTestChannel helper failed to insert channel")
	return id
}

// createTestListing is a helper to insert a published listing row directly.
func (s *CatalogStoreSuite) createTestListing(productID, channelID uuid.UUID) {
	s.T().Helper()
	_, err := s.dbPool.Exec(s.ctx,
		"INSERT INTO product_channel_listings (product_id, channel_id, is_published, published_at) VALUES ($1, $2, true, now())",
		productID, channelID)
	require.NoError(s.T(), err, "createTestListing helper failed to insert listing")
}

// createTestOrder is a helper to insert an order with a single line directly.
func (s *CatalogStoreSuite) createTestOrder(variantID uuid.UUID, currency string, createdAt time.Time, net, gross int64) uuid.UUID {
	s.T().Helper()
	var orderID uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO orders (user_id, status, currency, created_at) VALUES ($1, 'COMPLETED', $2, $3) RETURNING id",
		uuid.New(), currency, createdAt).Scan(&orderID)
	require.NoError(s.T(), err, "createTestOrder helper failed to insert order")
	_, err = s.dbPool.Exec(s.ctx,
		"INSERT INTO order_lines (order_id, variant_id, quantity, currency, total_net_amount, total_gross_amount) VALUES ($1, $2, 1, $3, $4, $5)",
		orderID, variantID, currency, net, gross)
	require.NoError(s.T(), err, "createTestOrder helper failed to insert order line")
	return orderID
}

func (s *CatalogStoreSuite) TestCreateAndFindCategory() {
	s.SetupTest()
	// given
	created := s.createTestCategory("Books", "books", nil)

	// when
	fetched, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err, "FindByID should not return an error")
	require.Equal(s.T(), created.ID, fetched.ID)
	require.Equal(s.T(), "Books", fetched.Name)
	require.Equal(s.T(), "books", fetched.Slug)
	require.Nil(s.T(), fetched.ParentID)
}

func (s *CatalogStoreSuite) TestFindCategoryByID_NotFound() {
	s.SetupTest()
	// given (no categories created)

	// when
	_, err := s.store.FindByID(s.ctx, uuid.New())

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrCategoryNotFound, "Expected ErrCategoryNotFound for non-existent category")
}

func (s *CatalogStoreSuite) TestCreateCategory_ParentNotFound() {
	s.SetupTest()
	// given
	missingParent := uuid.New()

	// when
	_, err := s.store.Create(s.ctx, "Books", "books", &missingParent)

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrParentCategoryNotFound, "Expected ErrParentCategoryNotFound for unknown parent")
}

func (s *CatalogStoreSuite) TestCollectTreeProducts() {
	s.SetupTest()
	// given: root -> child -> grandchild, one product per level
	root := s.createTestCategory("Root", "root", nil)
	child := s.createTestCategory("Child", "child", &root.ID)
	grandchild := s.createTestCategory("Grandchild", "grandchild", &child.ID)

	rootProduct := s.createTestProduct("Root product", "root-product", root.ID)
	childProduct := s.createTestProduct("Child product", "child-product", child.ID)
	grandchildProduct := s.createTestProduct("Grandchild product", "grandchild-product", grandchild.ID)

	// when
	products, err := s.store.CollectTreeProducts(s.ctx, []uuid.UUID{root.ID})

	// then
	require.NoError(s.T(), err, "CollectTreeProducts should not return an error")
	require.Len(s.T(), products, 3, "Should collect products from the whole subtree")
	found := make(map[uuid.UUID]bool)
	for _, product := range products {
		found[product.ID] = true
	}
	require.True(s.T(), found[rootProduct])
	require.True(s.T(), found[childProduct])
	require.True(s.T(), found[grandchildProduct])
}

func (s *CatalogStoreSuite) TestCollectTreeProducts_OverlappingRoots() {
	s.SetupTest()
	// given: passing both root and its child must not duplicate products
	root := s.createTestCategory("Root", "root", nil)
	child := s.createTestCategory("Child", "child", &root.ID)
	s.createTestProduct("Child product", "child-product", child.ID)

	// when
	products, err := s.store.CollectTreeProducts(s.ctx, []uuid.UUID{root.ID, child.ID})

	// then
	require.NoError(s.T(), err, "CollectTreeProducts should not return an error")
	require.Len(s.T(), products, 1, "Overlapping subtrees must not produce duplicates")
}

func (s *CatalogStoreSuite) TestDeleteCascade() {
	s.SetupTest()
	// given: a two-level tree with a published listing in one channel
	root := s.createTestCategory("Root", "root", nil)
	child := s.createTestCategory("Child", "child", &root.ID)
	productID := s.createTestProduct("Novel", "novel", child.ID)
	channelID := s.createTestChannel("web", "USD")
	s.createTestListing(productID, channelID)

	// when
	result, err := s.store.DeleteCascade(s.ctx, []uuid.UUID{root.ID})

	// then
	require.NoError(s.T(), err, "DeleteCascade should not return an error")
	require.EqualValues(s.T(), 2, result.Deleted, "Root and child should be deleted")
	require.Len(s.T(), result.Categories, 1, "Only the requested roots are reported")
	require.Equal(s.T(), root.ID, result.Categories[0].ID)
	require.Len(s.T(), result.Products, 1)
	require.Equal(s.T(), productID, result.Products[0].ID)
	require.Equal(s.T(), []uuid.UUID{channelID}, result.ChannelIDs)

	var categoryCount, productCount int
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT count(*) FROM categories").Scan(&categoryCount))
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT count(*) FROM products").Scan(&productCount))
	require.Zero(s.T(), categoryCount, "All categories in the subtree should be gone")
	require.Zero(s.T(), productCount, "Products go away with their categories")
}

func (s *CatalogStoreSuite) TestDeleteCascade_NotFound() {
	s.SetupTest()
	// given
	existing := s.createTestCategory("Root", "root", nil)

	// when
	_, err := s.store.DeleteCascade(s.ctx, []uuid.UUID{existing.ID, uuid.New()})

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrCategoriesNotFound, "Expected ErrCategoriesNotFound when any id is unknown")

	// and the existing category must survive the rolled back transaction
	fetched, err := s.store.FindByID(s.ctx, existing.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), existing.ID, fetched.ID)
}

func (s *CatalogStoreSuite) TestIDsWithoutVariants() {
	s.SetupTest()
	// given
	category := s.createTestCategory("Root", "root", nil)
	withVariant := s.createTestProduct("With variant", "with-variant", category.ID)
	withoutVariant := s.createTestProduct("Without variant", "without-variant", category.ID)
	s.createTestVariant(withVariant, "SKU-1", "Default")

	// when
	ids, err := s.store.IDsWithoutVariants(s.ctx, []uuid.UUID{withVariant, withoutVariant, uuid.New()})

	// then
	require.NoError(s.T(), err, "IDsWithoutVariants should not return an error")
	require.Equal(s.T(), []uuid.UUID{withoutVariant}, ids, "Only the variant-less product should be returned; unknown ids are dropped")
}

func (s *CatalogStoreSuite) TestSetListingPublished() {
	s.SetupTest()
	// given
	category := s.createTestCategory("Root", "root", nil)
	productID := s.createTestProduct("Novel", "novel", category.ID)
	channelID := s.createTestChannel("web", "USD")
	s.createTestListing(productID, channelID)

	// when: unpublish
	listing, err := s.store.SetListingPublished(s.ctx, productID, channelID, false)

	// then
	require.NoError(s.T(), err)
	require.False(s.T(), listing.IsPublished)
	require.Nil(s.T(), listing.PublishedAt, "Unpublishing must clear published_at")

	// when: publish again
	listing, err = s.store.SetListingPublished(s.ctx, productID, channelID, true)

	// then
	require.NoError(s.T(), err)
	require.True(s.T(), listing.IsPublished)
	require.NotNil(s.T(), listing.PublishedAt, "Publishing must set published_at")
}

func (s *CatalogStoreSuite) TestSetListingPublished_NotFound() {
	s.SetupTest()
	// given (no listings created)

	// when
	_, err := s.store.SetListingPublished(s.ctx, uuid.New(), uuid.New(), true)

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrListingNotFound, "Expected ErrListingNotFound for non-existent listing")
}

func (s *CatalogStoreSuite) TestFindLinesByVariant() {
	s.SetupTest()
	// given
	category := s.createTestCategory("Root", "root", nil)
	productID := s.createTestProduct("Novel", "novel", category.ID)
	variantID := s.createTestVariant(productID, "SKU-1", "Default")
	usdOrder := s.createTestOrder(variantID, "USD", time.Now().UTC(), 1000, 1200)
	s.createTestOrder(variantID, "EUR", time.Now().UTC(), 900, 1071)

	// when
	lines, err := s.store.FindLinesByVariant(s.ctx, variantID, "USD")

	// then
	require.NoError(s.T(), err, "FindLinesByVariant should not return an error")
	require.Len(s.T(), lines, 1, "Only lines in the requested currency should be returned")
	require.Equal(s.T(), usdOrder, lines[0].OrderID)
	require.EqualValues(s.T(), 1000, lines[0].TotalNetAmount)
	require.EqualValues(s.T(), 1200, lines[0].TotalGrossAmount)

	// and the referenced order can be resolved
	orders, err := s.store.FindOrdersByIDs(s.ctx, []uuid.UUID{usdOrder})
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)
	require.Equal(s.T(), usdOrder, orders[0].ID)
}
