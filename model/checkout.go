package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MoneyV2 is an amount in a given currency. Amounts travel as decimal strings
// and are written back exactly as the commerce API sent them.
type MoneyV2 struct {
	Amount       decimal.Decimal
	CurrencyCode string

	// raw is the amount string as received; empty for locally built values.
	raw string
}

type moneyJSON struct {
	Amount       json.RawMessage `json:"amount"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
}

func (m *MoneyV2) UnmarshalJSON(b []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = MoneyV2{CurrencyCode: v.CurrencyCode}
	text := bytes.TrimSpace(v.Amount)
	if len(text) == 0 || bytes.Equal(text, []byte("null")) {
		return nil
	}
	raw := string(text)
	if text[0] == '"' {
		if err := json.Unmarshal(text, &raw); err != nil {
			return err
		}
	}
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.Wrapf(err, "parse amount %q", raw)
	}
	m.Amount, m.raw = amt, raw
	return nil
}

func (m MoneyV2) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode,omitempty"`
	}{m.String(), m.CurrencyCode})
}

// String is the wire form of the amount. The received string is kept as long
// as Amount still holds its value; otherwise two decimal places are used.
func (m MoneyV2) String() string {
	if m.raw != "" {
		if d, err := decimal.NewFromString(m.raw); err == nil && d.Equal(m.Amount) {
			return m.raw
		}
	}
	return m.Amount.StringFixed(2)
}

type Checkout struct {
	ID              string             `json:"id"`
	WebURL          string             `json:"webUrl"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
	LineItems       LineItemConnection `json:"lineItems"`
	SubtotalPriceV2 MoneyV2            `json:"subtotalPriceV2"`
	TotalTaxV2      MoneyV2            `json:"totalTaxV2"`
	TotalPriceV2    MoneyV2            `json:"totalPriceV2"`
}

type LineItemConnection struct {
	Edges []LineItemEdge `json:"edges"`
}

type LineItemEdge struct {
	Node LineItem `json:"node"`
}

type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Variant  Variant `json:"variant"`
}

// Items flattens the line item edges.
func (c *Checkout) Items() []LineItem {
	out := make([]LineItem, 0, len(c.LineItems.Edges))
	for _, e := range c.LineItems.Edges {
		out = append(out, e.Node)
	}
	return out
}

// Inputs returns the write shape of the current line items, in order.
func (c *Checkout) Inputs() []LineItemInput {
	out := make([]LineItemInput, 0, len(c.LineItems.Edges))
	for _, e := range c.LineItems.Edges {
		out = append(out, LineItemInput{VariantID: e.Node.Variant.ID, Quantity: e.Node.Quantity})
	}
	return out
}

// LineItemInput is what the commerce API accepts when replacing line items.
type LineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// StateError is the error carried by a CheckoutState.
type StateError struct {
	Message string `json:"message"`
}

// CheckoutState is a session's cart as the views see it. At most one of
// Loading, Error and Data is meaningful.
type CheckoutState struct {
	Loading bool        `json:"loading"`
	Error   *StateError `json:"error"`
	Data    *Checkout   `json:"data"`
}

func LoadingState() CheckoutState { return CheckoutState{Loading: true} }

func ErrorState(err error) CheckoutState {
	return CheckoutState{Error: &StateError{Message: err.Error()}}
}

func DataState(c *Checkout) CheckoutState { return CheckoutState{Data: c} }
