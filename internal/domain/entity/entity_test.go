package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalValue(t *testing.T) {
	assert.Equal(t, 950.0, TotalValue(100, 5, 10))
	assert.Equal(t, 0.0, TotalValue(100, 5, 0))
	// 0.1 + 0.2 style drift must not leak into totals
	assert.Equal(t, 0.3, TotalValue(0.1, 0, 3))
}

func TestOrderTotal(t *testing.T) {
	p := Purchase{UnitPrice: 2500.50, Discount: 100.25, Quantity: 4}
	p.Recalculate()
	assert.Equal(t, 9601.0, p.OrderTotal)
}

func TestInventoryItem_Flags(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		item      InventoryItem
		lowStock  bool
		expired   bool
		stockText string
	}{
		{"out of stock", InventoryItem{InStock: 0}, true, false, "Out of Stock"},
		{"low stock boundary", InventoryItem{InStock: 9}, true, false, "Low Stock"},
		{"at threshold", InventoryItem{InStock: 10}, false, false, "In Stock"},
		{"expired", InventoryItem{InStock: 50, ExpiryDate: &past}, false, true, "In Stock"},
		{"not yet expired", InventoryItem{InStock: 50, ExpiryDate: &future}, false, false, "In Stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lowStock, tt.item.IsLowStock())
			assert.Equal(t, tt.expired, tt.item.IsExpired(now))
			assert.Equal(t, tt.stockText, tt.item.StockLevel())
		})
	}
}

func TestInventoryItem_Recalculate(t *testing.T) {
	item := InventoryItem{UnitPrice: 1200, Discount: 200, InStock: 3, TotalValue: 1}
	item.Recalculate()
	assert.Equal(t, 3000.0, item.TotalValue)
}

func TestExpenseRecord_Fields(t *testing.T) {
	e := ExpenseRecord{
		Title:    "Printer toner",
		Amount:   1500,
		Priority: PriorityUrgent,
		Status:   ExpenseStatusPending,
		Tags:     []string{"office", "q3"},
	}

	v, ok := e.Text("priority")
	assert.True(t, ok)
	assert.Equal(t, "Urgent", v)

	n, ok := e.Number("priority")
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	_, ok = e.Text("nope")
	assert.False(t, ok)
	_, ok = e.Number("title")
	assert.False(t, ok)

	assert.Contains(t, e.SearchText(), "office q3")
}

func TestExpenseRecord_HasConsistentDecision(t *testing.T) {
	now := time.Now()
	assert.True(t, ExpenseRecord{Status: ExpenseStatusPending}.HasConsistentDecision())
	assert.False(t, ExpenseRecord{Status: ExpenseStatusPending, DecisionDate: &now}.HasConsistentDecision())
	assert.True(t, ExpenseRecord{Status: ExpenseStatusApproved, DecisionDate: &now}.HasConsistentDecision())
	assert.False(t, ExpenseRecord{Status: ExpenseStatusPaid}.HasConsistentDecision())
}

func TestPriority_Rank(t *testing.T) {
	assert.Equal(t, 4, PriorityUrgent.Rank())
	assert.Equal(t, 3, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 1, PriorityLow.Rank())
	assert.Equal(t, 0, Priority("Whenever").Rank())
}

func TestNormalizePage(t *testing.T) {
	p, s := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, s)

	p, s = NormalizePage(3, 500)
	assert.Equal(t, 3, p)
	assert.Equal(t, MaxPageSize, s)
}
