package seed_test

import (
	"context"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	products, err := seed.Catalog()
	require.NoError(t, err)
	require.Len(t, products, 36)

	names := map[string]bool{}
	for _, p := range products {
		assert.False(t, names[p.Name], "duplicate product %q", p.Name)
		names[p.Name] = true
		assert.Contains(t, []string{models.CategoryPreteen, models.CategoryTeen}, p.Category)
		assert.True(t, p.Price.IsPositive(), p.Name)
	}
}

func TestProducts_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewGORMStore(dbtest.Open(t))

	n, err := seed.Products(ctx, store, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	n, err = seed.Products(ctx, store, logger.Discard())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Products().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 36, count)

	teen, err := store.Products().List(ctx, models.ProductFilter{Category: models.CategoryTeen})
	require.NoError(t, err)
	assert.Len(t, teen, 18)
}
