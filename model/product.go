package models

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type Variant struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	AvailableForSale bool    `json:"availableForSale"`
	PriceV2          MoneyV2 `json:"priceV2"`
	Image            *Image  `json:"image,omitempty"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges"`
}

type ImageEdge struct {
	Node Image `json:"node"`
}

type VariantConnection struct {
	Edges []VariantEdge `json:"edges"`
}

type VariantEdge struct {
	Node Variant `json:"node"`
}

// Product mirrors the commerce API's product shape.
type Product struct {
	ID              string            `json:"id"`
	Handle          string            `json:"handle"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"descriptionHtml,omitempty"`
	Images          ImageConnection   `json:"images"`
	Variants        VariantConnection `json:"variants"`
}

// FeaturedImage returns the first image, if any.
func (p Product) FeaturedImage() *Image {
	if len(p.Images.Edges) == 0 {
		return nil
	}
	img := p.Images.Edges[0].Node
	return &img
}

func (p Product) VariantList() []Variant {
	out := make([]Variant, 0, len(p.Variants.Edges))
	for _, e := range p.Variants.Edges {
		out = append(out, e.Node)
	}
	return out
}

// StartingPrice is the price of the first variant.
func (p Product) StartingPrice() MoneyV2 {
	if len(p.Variants.Edges) == 0 {
		return MoneyV2{}
	}
	return p.Variants.Edges[0].Node.PriceV2
}
