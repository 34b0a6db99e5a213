// Package seed loads the starter catalog into an empty database.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog returns the bundled starter products.
func Catalog() ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(catalogJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return products, nil
}

// Products inserts the starter catalog when the products table is empty.
// It returns the number of products created.
func Products(ctx context.Context, store repositories.Store, log *slog.Logger) (int, error) {
	count, err := store.Products().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		log.Debug("catalog already populated, skipping seed", "products", count)
		return 0, nil
	}

	products, err := Catalog()
	if err != nil {
		return 0, err
	}

	created := 0
	err = store.WithTx(ctx, func(tx repositories.Store) error {
		seen := make(map[string]bool, len(products))
		for i := range products {
			if seen[products[i].Name] {
				continue
			}
			seen[products[i].Name] = true
			if err := tx.Products().Create(ctx, &products[i]); err != nil {
				return fmt.Errorf("failed to create product %q: %w", products[i].Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("seeded catalog", "products", created)
	return created, nil
}
