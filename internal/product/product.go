package product

// Product represents a catalog item and maps to the `public.products` table.
// Available gates purchasability: unavailable products can still be read but
// never carted or ordered.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Patch is a partial update: only non-nil fields are validated and applied.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Description *string  `json:"description,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

// Apply copies the supplied fields onto p and returns the result.
func (patch Patch) Apply(p Product) Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
	return p
}
