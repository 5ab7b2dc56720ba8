package entity

import "time"

// InventoryItem is a catalogue product with stock and engagement data
type InventoryItem struct {
	ID               string          `json:"id"`
	ProductName      string          `json:"productName"`
	Category         string          `json:"category"`
	Brand            string          `json:"brand"`
	ShortDescription string          `json:"shortDescription"`
	LongDescription  string          `json:"longDescription"`
	Image            string          `json:"image"`
	UnitPrice        float64         `json:"unitPrice"`
	CostPrice        float64         `json:"costPrice"`
	Discount         float64         `json:"discount"`
	TotalValue       float64         `json:"totalValue"`
	InStock          int             `json:"inStock"`
	Status           InventoryStatus `json:"status"`
	Views            int             `json:"views"`
	Favorites        int             `json:"favorites"`
	ExpiryDate       *time.Time      `json:"expiryDate,omitempty"`
	Purchases        []Purchase      `json:"purchases,omitempty"`
}

// Purchase is an order line placed against an inventory item
type Purchase struct {
	ID         string         `json:"id"`
	ItemID     string         `json:"itemId"`
	OrderDate  time.Time      `json:"orderDate"`
	OrderType  string         `json:"orderType"`
	UnitPrice  float64        `json:"unitPrice"`
	Quantity   int            `json:"quantity"`
	Discount   float64        `json:"discount"`
	OrderTotal float64        `json:"orderTotal"`
	Status     PurchaseStatus `json:"status"`
}

// Recalculate refreshes the derived total value from price, discount and stock
func (i *InventoryItem) Recalculate() {
	i.TotalValue = TotalValue(i.UnitPrice, i.Discount, i.InStock)
}

// IsLowStock reports whether stock is below the fixed threshold
func (i InventoryItem) IsLowStock() bool {
	return i.InStock < LowStockThreshold
}

// IsExpired reports whether the item carries an expiry date earlier than now
func (i InventoryItem) IsExpired(now time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(now)
}

// StockLevel buckets the stock count for filtering
func (i InventoryItem) StockLevel() string {
	switch {
	case i.InStock == 0:
		return "Out of Stock"
	case i.IsLowStock():
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// Text returns the string value of a filterable or sortable field
func (i InventoryItem) Text(field string) (string, bool) {
	switch field {
	case "id":
		return i.ID, true
	case "productName":
		return i.ProductName, true
	case "category":
		return i.Category, true
	case "brand":
		return i.Brand, true
	case "status":
		return string(i.Status), true
	case "stockLevel":
		return i.StockLevel(), true
	}
	return "", false
}

// Number returns the numeric value of a sortable field
func (i InventoryItem) Number(field string) (float64, bool) {
	switch field {
	case "unitPrice":
		return i.UnitPrice, true
	case "costPrice":
		return i.CostPrice, true
	case "discount":
		return i.Discount, true
	case "inStock":
		return float64(i.InStock), true
	case "totalValue":
		return i.TotalValue, true
	case "views":
		return float64(i.Views), true
	case "favorites":
		return float64(i.Favorites), true
	}
	return 0, false
}

// SearchText returns the fields matched by free-text search
func (i InventoryItem) SearchText() []string {
	return []string{i.ProductName, i.Category, i.ID}
}

// Recalculate refreshes the derived order total
func (p *Purchase) Recalculate() {
	p.OrderTotal = OrderTotal(p.UnitPrice, p.Discount, p.Quantity)
}
