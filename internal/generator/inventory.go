package generator

import (
	"fmt"
	"time"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// Inventory ranges
const (
	MinUnitPrice    = 500.0
	MaxUnitPrice    = 50000.0
	MaxStock        = 200
	MaxViews        = 5000
	MaxFavorites    = 500
	MaxPurchaseQty  = 20
	expiryWindowDay = 180
)

// InventoryItem generates one catalogue item with its derived total value
func (g *Generator) InventoryItem(id string) entity.InventoryItem {
	category := g.pick(inventoryCategories)
	brand := g.pick(brands)
	unitPrice := g.floatBetween(MinUnitPrice, MaxUnitPrice)

	item := entity.InventoryItem{
		ID:               id,
		ProductName:      fmt.Sprintf("%s %s %s", brand, category, g.pick(productNouns)),
		Category:         category,
		Brand:            brand,
		ShortDescription: fmt.Sprintf("%s by %s", category, brand),
		LongDescription:  fmt.Sprintf("%s from %s, stocked for retail and wholesale orders.", category, brand),
		Image:            fmt.Sprintf("/images/products/%s.png", id),
		UnitPrice:        unitPrice,
		CostPrice:        roundCents(unitPrice * (0.6 + 0.3*g.src.Float64())),
		Discount:         roundCents(unitPrice * 0.1 * g.src.Float64()),
		InStock:          g.intBetween(0, MaxStock),
		Status:           entity.InventoryStatus(g.pick(inventoryStatuses)),
		Views:            g.intBetween(0, MaxViews),
		Favorites:        g.intBetween(0, MaxFavorites),
	}

	if g.chance(3) {
		offset := time.Duration(g.intBetween(-expiryWindowDay, expiryWindowDay)) * 24 * time.Hour
		expiry := g.now().Add(offset)
		item.ExpiryDate = &expiry
	}

	item.Recalculate()
	return item
}

// InventoryItems generates n items with sequential ids
func (g *Generator) InventoryItems(n int) []entity.InventoryItem {
	out := make([]entity.InventoryItem, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, g.InventoryItem(SequentialID("INV", i)))
	}
	return out
}

// Purchase generates one order line for item, priced at or below its unit price
func (g *Generator) Purchase(id string, item entity.InventoryItem) entity.Purchase {
	p := entity.Purchase{
		ID:        id,
		ItemID:    item.ID,
		OrderDate: g.now().Add(-time.Duration(g.intBetween(0, 90*24)) * time.Hour),
		OrderType: g.pick(orderTypes),
		UnitPrice: item.UnitPrice,
		Quantity:  g.intBetween(1, MaxPurchaseQty),
		Discount:  roundCents(item.UnitPrice * 0.1 * g.src.Float64()),
		Status:    entity.PurchaseStatus(g.pick(purchaseStatuses)),
	}
	p.Recalculate()
	return p
}

// Purchases generates n order lines for item with sequential ids
func (g *Generator) Purchases(item entity.InventoryItem, n int) []entity.Purchase {
	out := make([]entity.Purchase, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, g.Purchase(fmt.Sprintf("%s-PUR-%04d", item.ID, i), item))
	}
	return out
}
