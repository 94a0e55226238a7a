package commerce

import (
	"context"

	models "storefront/model"
)

// API is the subset of the Storefront API the storefront relies on.
type API interface {
	Product(ctx context.Context, handle string) (models.Product, error)
	Products(ctx context.Context, first int) ([]models.Product, error)

	Checkout(ctx context.Context, id string) (models.Checkout, error)
	CreateCheckout(ctx context.Context, lines []models.LineItemInput) (models.Checkout, error)
	ReplaceLineItems(ctx context.Context, checkoutID string, lines []models.LineItemInput) (models.Checkout, error)
}
