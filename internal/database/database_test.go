package database_test

import (
	"testing"

	"storefront/internal/database"
	"storefront/internal/database/dbtest"
	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "oracle", DSN: "x"}, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDBTestOpen_MigratesSchema(t *testing.T) {
	db := dbtest.Open(t)

	for _, model := range []any{
		&models.Product{}, &models.User{}, &models.Cart{},
		&models.CartItem{}, &models.Order{}, &models.OrderItem{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T table missing", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.CartItem{}, "idx_cart_items_cart_product"))
}

func TestDBTestOpen_IsolatedDatabases(t *testing.T) {
	a := dbtest.Open(t)
	b := dbtest.Open(t)

	require.NoError(t, a.Create(&models.Product{ID: "p-1", Name: "tee", Category: models.CategoryTeen}).Error)

	var n int64
	require.NoError(t, b.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := dbtest.Open(t)
	err := db.Create(&models.CartItem{CartID: "missing", ProductID: "missing", Quantity: 1}).Error
	assert.Error(t, err)
}
