package domain

// OrderItem is a snapshot of a product line at the moment the order was
// placed. Catalog changes after that moment never alter it.
type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Name      string
	UnitPrice float64
	Quantity  int
	Size      string
	Color     string
	ImageURL  string
	LineTotal float64
}
