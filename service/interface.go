package service

import (
	"context"

	models "storefront/model"
)

type ServiceInterface interface {
	Cart(ctx context.Context, sessionID string) models.CheckoutState
	AddLineItem(ctx context.Context, sessionID, variantID string, qty int) (models.CheckoutState, error)
	UpdateQuantity(ctx context.Context, sessionID, variantID string, qty int) (models.CheckoutState, error)
	RemoveLineItem(ctx context.Context, sessionID, variantID string) (models.CheckoutState, error)

	Product(ctx context.Context, handle string) (models.Product, error)
	Products(ctx context.Context, first int) ([]models.Product, error)
}
