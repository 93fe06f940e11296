package models

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/generation/farmacia/app/clock"
	"github.com/generation/farmacia/app/database"
	"github.com/generation/farmacia/app/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// These tests run against a real Postgres, e.g.
//
//	TEST_DATABASE_DSN="host=localhost user=farmacia password=farmacia dbname=farmacia_test sslmode=disable" go test ./models/...
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := database.Migrate(ctx, dsn, filepath.Join("..", "migrations"))
	require.NoError(t, err)

	db, err := database.OpenDSN(dsn, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, db.Exec("TRUNCATE tb_produtos, tb_categorias RESTART IDENTITY CASCADE").Error)

	t.Cleanup(func() {
		assert.NoError(t, database.Close(db))
	})
	return db
}

type repos struct {
	categories *CategoriesRepository
	products   *ProductsRepository
	clock      *clock.Fake
}

func newRepos(t *testing.T) repos {
	db := openTestDB(t)
	clk := clock.NewFake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return repos{
		categories: NewCategoriesRepository(db),
		products:   NewProductsRepository(db, clk),
		clock:      clk,
	}
}

func (r repos) seedCategory(t *testing.T, description string) *Category {
	t.Helper()
	c := &Category{Description: description}
	require.NoError(t, r.categories.CreateCategory(context.Background(), c))
	return c
}

func (r repos) seedProduct(t *testing.T, name, price string, categoryID uint) *Product {
	t.Helper()
	p := &Product{Name: name, Price: decimal.RequireFromString(price), CategoryID: categoryID}
	require.NoError(t, r.products.CreateProduct(context.Background(), p))
	return p
}

func discountBy(pct int64) func(decimal.Decimal) (decimal.Decimal, error) {
	return func(price decimal.Decimal) (decimal.Decimal, error) {
		return ApplyDiscount(price, decimal.NewFromInt(pct))
	}
}

func TestRepositories_DiscountScenario(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	c := r.seedCategory(t, "Analgésicos")
	assert.Equal(t, uint(1), c.ID)
	p := r.seedProduct(t, "Dipirona 500mg", "10.00", c.ID)
	assert.Equal(t, uint(1), p.ID)

	got, err := r.products.Reprice(ctx, p.ID, discountBy(10))
	require.NoError(t, err)
	assert.Equal(t, "9.00", got.Price.StringFixed(2))
	assert.Equal(t, "Analgésicos", got.Category.Description)

	_, err = r.products.Reprice(ctx, p.ID, discountBy(10))
	require.NoError(t, err)

	stored, err := r.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "8.10", stored.Price.StringFixed(2))

	err = r.categories.DeleteCategory(ctx, c.ID)
	assert.ErrorIs(t, err, ErrReferentialIntegrity)

	stored, err = r.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, stored.Category.ID)
}

func TestRepositories_RepriceToZero(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	c := r.seedCategory(t, "Analgésicos")
	full := r.seedProduct(t, "Dipirona 500mg", "10.00", c.ID)
	cent := r.seedProduct(t, "Bala de menta", "0.01", c.ID)

	got, err := r.products.Reprice(ctx, full.ID, discountBy(100))
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Price.StringFixed(2))

	_, err = r.products.Reprice(ctx, cent.ID, discountBy(60))
	require.NoError(t, err)

	for _, id := range []uint{full.ID, cent.ID} {
		stored, err := r.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, stored.Price.IsZero(), "product %d: %s", id, stored.Price)
	}
}

func TestRepositories_RepriceRollsBackOnError(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.seedProduct(t, "Dipirona 500mg", "10.00", r.seedCategory(t, "Analgésicos").ID)

	_, err := r.products.Reprice(ctx, p.ID, discountBy(101))
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)

	_, err = r.products.Reprice(ctx, 999, discountBy(10))
	assert.ErrorIs(t, err, ErrProductNotFound)

	stored, err := r.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", stored.Price.StringFixed(2))
}

func TestRepositories_ConcurrentRepriceSerializes(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.seedProduct(t, "Dipirona 500mg", "100.00", r.seedCategory(t, "Analgésicos").ID)

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.products.Reprice(ctx, p.ID, discountBy(10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := decimal.RequireFromString("100.00")
	for i := 0; i < calls; i++ {
		want, _ = ApplyDiscount(want, decimal.NewFromInt(10))
	}
	stored, err := r.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, want.StringFixed(2), stored.Price.StringFixed(2))
}

func TestRepositories_Search(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	c := r.seedCategory(t, "Analgésicos")
	r.seedCategory(t, "Vitaminas")
	r.seedProduct(t, "Aspirina", "8.90", c.ID)
	r.seedProduct(t, "ASPIRINA500", "12.40", c.ID)
	r.seedProduct(t, "Paracetamol", "6.30", c.ID)

	found, err := r.products.SearchByName(ctx, "asp")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Aspirina", found[0].Name)
	assert.Equal(t, "ASPIRINA500", found[1].Name)
	assert.Equal(t, "Analgésicos", found[0].Category.Description)

	wildcard, err := r.products.SearchByName(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	cats, err := r.categories.SearchByDescription(ctx, "VITA")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Vitaminas", cats[0].Description)
}

func TestRepositories_UpdateAndDelete(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	c := r.seedCategory(t, "Analgésicos")
	p := r.seedProduct(t, "Dipirona 500mg", "10.00", c.ID)
	created := p.LastModified

	r.clock.Advance(time.Hour)
	p.Name = "Dipirona 1g"
	require.NoError(t, r.products.UpdateProduct(ctx, p))

	stored, err := r.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dipirona 1g", stored.Name)
	assert.True(t, stored.LastModified.After(created))

	assert.ErrorIs(t, r.products.UpdateProduct(ctx, &Product{ID: 404, Name: "Nada nada", Price: decimal.NewFromInt(1), CategoryID: c.ID}), ErrProductNotFound)
	assert.ErrorIs(t, r.categories.UpdateCategory(ctx, &Category{ID: 404, Description: "Nada nada"}), ErrCategoryNotFound)

	dangling := &Product{Name: "Sem categoria", Price: decimal.NewFromInt(1), CategoryID: 404}
	assert.ErrorIs(t, r.products.CreateProduct(ctx, dangling), ErrReferentialIntegrity)

	require.NoError(t, r.products.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.products.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	require.NoError(t, r.categories.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, r.categories.DeleteCategory(ctx, c.ID), ErrCategoryNotFound)

	all, err := r.categories.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
