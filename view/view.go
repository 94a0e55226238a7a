// Package view renders the storefront pages inside the shared layout.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/go-faster/errors"

	models "storefront/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// loadingRefreshSeconds is how often a loading cart page reloads itself.
const loadingRefreshSeconds = 1

// Renderer executes the page templates.
type Renderer struct {
	shopName string
	pages    map[string]*template.Template
}

type page struct {
	ShopName string
	Title    string
	Refresh  int
	Body     interface{}
}

// ErrorPage is the body of the error template.
type ErrorPage struct {
	Heading string
	Message string
}

func formatMoney(m models.MoneyV2) string {
	return "$" + m.Amount.StringFixed(2)
}

// New parses every page together with the layout.
func New(shopName string) (*Renderer, error) {
	funcs := template.FuncMap{"money": formatMoney}
	r := &Renderer{shopName: shopName, pages: map[string]*template.Template{}}
	for _, name := range []string{"cart", "product", "catalog", "error"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s template", name)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) render(w io.Writer, name string, p page) error {
	p.ShopName = r.shopName
	if err := r.pages[name].ExecuteTemplate(w, "layout", p); err != nil {
		return errors.Wrapf(err, "render %s", name)
	}
	return nil
}

// Cart renders exactly one of: a progress indicator, the error message, the
// empty-cart message, or the line item table with totals.
func (r *Renderer) Cart(w io.Writer, st models.CheckoutState) error {
	p := page{Title: "Your Cart", Body: st}
	if st.Loading {
		p.Refresh = loadingRefreshSeconds
	}
	return r.render(w, "cart", p)
}

func (r *Renderer) Product(w io.Writer, prod models.Product) error {
	return r.render(w, "product", page{Title: prod.Title, Body: prod})
}

func (r *Renderer) Catalog(w io.Writer, products []models.Product) error {
	return r.render(w, "catalog", page{Title: "Products", Body: products})
}

func (r *Renderer) Error(w io.Writer, heading, message string) error {
	return r.render(w, "error", page{Title: heading, Body: ErrorPage{Heading: heading, Message: message}})
}
