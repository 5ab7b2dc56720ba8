package service

import (
	"context"
	"time"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/query"
)

// InventoryQuery selects and orders the inventory list
type InventoryQuery struct {
	Status     string
	Category   string
	Brand      string
	StockLevel string
	Search     string
	SortKey    string
	Order      query.Order
	Page       int
	PageSize   int
}

// InventoryRow is one item with its flags and display values
type InventoryRow struct {
	entity.InventoryItem
	LowStock       bool   `json:"lowStock"`
	Expired        bool   `json:"expired"`
	UnitPriceText  string `json:"unitPriceText"`
	TotalValueText string `json:"totalValueText"`
	StatusClass    string `json:"statusClass"`
	StockClass     string `json:"stockClass"`
}

// InventoryService lists the catalogue
type InventoryService interface {
	List(ctx context.Context, q InventoryQuery) (*entity.Page[InventoryRow], error)
}

type inventoryServiceImpl struct {
	backend   port.InventoryBackend
	formatter *format.Formatter
	now       func() time.Time
	views     Views[[]entity.InventoryItem]
	events    events
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(backend port.InventoryBackend, formatter *format.Formatter, now func() time.Time, publisher Publisher, logger Logger) InventoryService {
	if now == nil {
		now = time.Now
	}
	return &inventoryServiceImpl{
		backend:   backend,
		formatter: formatter,
		now:       now,
		events:    events{publisher: publisher, logger: logger},
	}
}

// List fetches the catalogue, then filters, searches, sorts and pages locally
func (s *inventoryServiceImpl) List(ctx context.Context, q InventoryQuery) (*entity.Page[InventoryRow], error) {
	fetched, err := s.views.Load(ctx, s.backend.ListInventory)
	if err != nil {
		return nil, s.events.failed(ctx, EntityInventory, "", ActionList, err)
	}
	items := recalculated(fetched)

	items = filterAll(items, map[string]string{
		"status":     q.Status,
		"category":   q.Category,
		"brand":      q.Brand,
		"stockLevel": q.StockLevel,
	})
	items = query.Search(items, q.Search)
	items = query.Sort(items, q.SortKey, q.Order)

	now := s.now()
	page := query.Paginate(items, q.Page, q.PageSize)
	rows := make([]InventoryRow, len(page.Items))
	for i, item := range page.Items {
		rows[i] = InventoryRow{
			InventoryItem:  item,
			LowStock:       item.IsLowStock(),
			Expired:        item.IsExpired(now),
			UnitPriceText:  s.formatter.Currency(item.UnitPrice),
			TotalValueText: s.formatter.Currency(item.TotalValue),
			StatusClass:    format.StatusColor(string(item.Status)),
			StockClass:     format.StockColor(item.InStock),
		}
	}

	return &entity.Page[InventoryRow]{
		Items:    rows,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// recalculated copies items with every total re-derived from its price,
// discount and quantity. Backend totals are never trusted.
func recalculated(items []entity.InventoryItem) []entity.InventoryItem {
	out := make([]entity.InventoryItem, len(items))
	for i, item := range items {
		item.Recalculate()
		if item.Purchases != nil {
			purchases := make([]entity.Purchase, len(item.Purchases))
			for j, p := range item.Purchases {
				p.Recalculate()
				purchases[j] = p
			}
			item.Purchases = purchases
		}
		out[i] = item
	}
	return out
}
