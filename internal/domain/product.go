package domain

import "time"

type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	SalePrice   *float64
	IsActive    bool
	IsDeleted   bool
	Sizes       []ProductSize
	Images      []ProductImage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductSize struct {
	Size  string
	Stock int
}

type ProductImage struct {
	URL       string
	IsPrimary bool
}

// UnitPrice is the price a buyer is actually charged: the sale price when one
// is set, the list price otherwise.
func (p Product) UnitPrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

func (p Product) FindSize(size string) (ProductSize, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s, true
		}
	}
	return ProductSize{}, false
}

// PrimaryImage returns the url flagged as primary, falling back to the first
// image. Empty when the product has no images.
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

func (p Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}
	return total
}
