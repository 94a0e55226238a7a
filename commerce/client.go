// Package commerce talks to the external Storefront GraphQL API.
package commerce

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/machinebox/graphql"

	models "storefront/model"
	"storefront/obs"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

// Client is a Storefront API client.
type Client struct {
	gql   *graphql.Client
	token string
}

// New returns a Client for the GraphQL endpoint. Every call is bounded by timeout.
func New(endpoint, token string, timeout time.Duration) *Client {
	hc := &http.Client{Timeout: timeout}
	return &Client{
		gql:   graphql.NewClient(endpoint, graphql.WithHTTPClient(hc)),
		token: token,
	}
}

func (c *Client) run(ctx context.Context, op string, req *graphql.Request, resp interface{}) error {
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}
	start := time.Now()
	err := c.gql.Run(ctx, req, resp)
	obs.ObserveCommerce(op, start, err)
	if err != nil {
		obs.Logger.Warn("commerce_call_failed", "operation", op, "error", err)
		return errors.Wrap(err, op)
	}
	return nil
}

// Product fetches a product by handle.
func (c *Client) Product(ctx context.Context, handle string) (models.Product, error) {
	req := graphql.NewRequest(productByHandleQuery)
	req.Var("handle", handle)
	var resp struct {
		ProductByHandle *models.Product `json:"productByHandle"`
	}
	if err := c.run(ctx, "product_by_handle", req, &resp); err != nil {
		return models.Product{}, err
	}
	if resp.ProductByHandle == nil {
		return models.Product{}, errors.Wrapf(ErrNotFound, "product %q", handle)
	}
	return *resp.ProductByHandle, nil
}

// Products lists the first n products of the catalog.
func (c *Client) Products(ctx context.Context, first int) ([]models.Product, error) {
	req := graphql.NewRequest(productsQuery)
	req.Var("first", first)
	var resp struct {
		Products struct {
			Edges []struct {
				Node models.Product `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.run(ctx, "products", req, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(resp.Products.Edges))
	for _, e := range resp.Products.Edges {
		out = append(out, e.Node)
	}
	return out, nil
}

// Checkout fetches a checkout by its global id.
func (c *Client) Checkout(ctx context.Context, id string) (models.Checkout, error) {
	req := graphql.NewRequest(checkoutQuery)
	req.Var("id", id)
	var resp struct {
		Node *models.Checkout `json:"node"`
	}
	if err := c.run(ctx, "checkout", req, &resp); err != nil {
		return models.Checkout{}, err
	}
	// node() answers with an empty object for ids of another type.
	if resp.Node == nil || resp.Node.ID == "" {
		return models.Checkout{}, errors.Wrapf(ErrNotFound, "checkout %q", id)
	}
	return *resp.Node, nil
}

func (c *Client) CreateCheckout(ctx context.Context, lines []models.LineItemInput) (models.Checkout, error) {
	const op = "checkout_create"
	req := graphql.NewRequest(checkoutCreateMutation)
	req.Var("input", map[string]interface{}{"lineItems": nonNil(lines)})
	var resp struct {
		CheckoutCreate struct {
			Checkout   *models.Checkout `json:"checkout"`
			UserErrors []FieldError     `json:"checkoutUserErrors"`
		} `json:"checkoutCreate"`
	}
	if err := c.run(ctx, op, req, &resp); err != nil {
		return models.Checkout{}, err
	}
	return payload(op, resp.CheckoutCreate.Checkout, resp.CheckoutCreate.UserErrors)
}

// ReplaceLineItems sets the checkout's line items to exactly lines.
func (c *Client) ReplaceLineItems(ctx context.Context, checkoutID string, lines []models.LineItemInput) (models.Checkout, error) {
	const op = "checkout_line_items_replace"
	req := graphql.NewRequest(checkoutLineItemsReplaceMutation)
	req.Var("checkoutId", checkoutID)
	req.Var("lineItems", nonNil(lines))
	var resp struct {
		Replace struct {
			Checkout   *models.Checkout `json:"checkout"`
			UserErrors []FieldError     `json:"userErrors"`
		} `json:"checkoutLineItemsReplace"`
	}
	if err := c.run(ctx, op, req, &resp); err != nil {
		return models.Checkout{}, err
	}
	return payload(op, resp.Replace.Checkout, resp.Replace.UserErrors)
}

func payload(op string, co *models.Checkout, userErrs []FieldError) (models.Checkout, error) {
	if len(userErrs) > 0 {
		return models.Checkout{}, &UserError{Operation: op, Errors: userErrs}
	}
	if co == nil {
		return models.Checkout{}, errors.Errorf("%s: empty checkout in response", op)
	}
	return *co, nil
}

// nonNil keeps an empty list encoding as [] rather than null.
func nonNil(lines []models.LineItemInput) []models.LineItemInput {
	if lines == nil {
		return []models.LineItemInput{}
	}
	return lines
}
