package stores

import (
	"context"
	"strings"

	"github.com/Adeboye22/user-fuelup/models"
)

// Catalog lists the fuel products on sale.
type Catalog struct {
	base
}

func (c *Catalog) Products(ctx context.Context, sess *Session) ([]models.Product, error) {
	var products []models.Product
	env, err := c.client(sess).Get(ctx, "/products", &products)
	if err != nil {
		return nil, wrap("fetch products", err)
	}
	if err := requireSuccess(env, "Failed to fetch fuel products"); err != nil {
		return nil, err
	}
	return products, nil
}

// Product finds one product by id in the catalog.
func (c *Catalog) Product(ctx context.Context, sess *Session, id string) (models.Product, bool, error) {
	products, err := c.Products(ctx, sess)
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

// ProductColor is the accent colour of a fuel by name.
func ProductColor(name string) models.Style {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "petrol"):
		return models.StyleRed
	case strings.Contains(n, "diesel"):
		return models.StyleYellow
	case strings.Contains(n, "kerosene"):
		return models.StyleBlue
	default:
		return models.StyleUnknown
	}
}
