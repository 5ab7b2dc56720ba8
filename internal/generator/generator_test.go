package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

var refTime = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return NewSeeded(seed, WithClock(func() time.Time { return refTime }))
}

func TestSequentialID(t *testing.T) {
	assert.Equal(t, "EXP-0001", SequentialID("EXP", 1))
	assert.Equal(t, "INV-0042", SequentialID("INV", 42))
	assert.Equal(t, "EXP-12345", SequentialID("EXP", 12345))
}

func TestExpenses_WithinDocumentedRanges(t *testing.T) {
	g := newTestGenerator(7)
	records := g.Expenses(200)
	require.Len(t, records, 200)

	for i, rec := range records {
		assert.Equal(t, SequentialID("EXP", i+1), rec.ID)
		assert.Equal(t, entity.ExpenseStatusPending, rec.Status)
		assert.Nil(t, rec.DecisionDate)
		assert.Nil(t, rec.ApprovedDate)
		assert.Empty(t, rec.ApprovedBy)
		assert.Empty(t, rec.RejectionReason)
		assert.True(t, rec.HasConsistentDecision())

		assert.GreaterOrEqual(t, rec.Amount, MinExpenseAmount)
		assert.LessOrEqual(t, rec.Amount, MaxExpenseAmount)
		assert.Contains(t, entity.ExpenseCategories, rec.Category)
		assert.Contains(t, entity.Departments, rec.Department)
		assert.Positive(t, rec.Priority.Rank())
		assert.False(t, rec.RequestDate.After(refTime))
		assert.True(t, rec.RequestDate.After(refTime.Add(-31*24*time.Hour)))
		assert.LessOrEqual(t, len(rec.Tags), 3)
		if rec.Vendor != "" {
			assert.Contains(t, vendors, rec.Vendor)
		}
	}
}

func TestExpenses_ZeroOrNegativeCount(t *testing.T) {
	g := newTestGenerator(1)
	assert.Empty(t, g.Expenses(0))
	assert.Empty(t, g.Expenses(-3))
}

func TestSeededGeneratorsAreReproducible(t *testing.T) {
	a := newTestGenerator(99).Expenses(20)
	b := newTestGenerator(99).Expenses(20)
	assert.Equal(t, a, b)
}

func TestInventoryItems_DerivedTotals(t *testing.T) {
	g := newTestGenerator(3)
	items := g.InventoryItems(150)
	require.Len(t, items, 150)

	for i, item := range items {
		assert.Equal(t, SequentialID("INV", i+1), item.ID)
		assert.GreaterOrEqual(t, item.UnitPrice, MinUnitPrice)
		assert.LessOrEqual(t, item.UnitPrice, MaxUnitPrice)
		assert.GreaterOrEqual(t, item.CostPrice, item.UnitPrice*0.6-0.01)
		assert.LessOrEqual(t, item.CostPrice, item.UnitPrice*0.9+0.01)
		assert.GreaterOrEqual(t, item.Discount, 0.0)
		assert.Less(t, item.Discount, item.UnitPrice)
		assert.GreaterOrEqual(t, item.InStock, 0)
		assert.LessOrEqual(t, item.InStock, MaxStock)
		assert.LessOrEqual(t, item.Views, MaxViews)
		assert.LessOrEqual(t, item.Favorites, MaxFavorites)
		assert.Equal(t, entity.TotalValue(item.UnitPrice, item.Discount, item.InStock), item.TotalValue)
		if item.ExpiryDate != nil {
			assert.WithinDuration(t, refTime, *item.ExpiryDate, expiryWindowDay*24*time.Hour)
		}
	}
}

func TestPurchases_DerivedTotals(t *testing.T) {
	g := newTestGenerator(11)
	item := g.InventoryItem("INV-0001")
	purchases := g.Purchases(item, 25)
	require.Len(t, purchases, 25)

	for _, p := range purchases {
		assert.Equal(t, item.ID, p.ItemID)
		assert.GreaterOrEqual(t, p.Quantity, 1)
		assert.LessOrEqual(t, p.Quantity, MaxPurchaseQty)
		assert.Equal(t, entity.OrderTotal(p.UnitPrice, p.Discount, p.Quantity), p.OrderTotal)
		assert.Contains(t, purchaseStatuses, string(p.Status))
	}
	assert.Equal(t, "INV-0001-PUR-0001", purchases[0].ID)
}

func TestApprovalsAndRefunds(t *testing.T) {
	g := newTestGenerator(5)

	for _, acc := range g.AccountApprovals(10) {
		assert.Equal(t, entity.AccountStatusPending, acc.Status)
		assert.Contains(t, acc.Email, "@")
	}

	for _, ref := range g.RefundRequests(30) {
		assert.Equal(t, entity.RefundStatusPending, ref.Status)
		assert.LessOrEqual(t, ref.Amount, ref.SaleAmount)
		assert.Positive(t, ref.Amount)
	}

	assert.Contains(t, OutsourcedSuppliers, g.Supplier())
}

type fixedSource struct {
	ints   []int
	floats []float64
}

func (s *fixedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *fixedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func TestExpense_FixedSequence(t *testing.T) {
	g := New(WithSource(&fixedSource{}), WithClock(func() time.Time { return refTime }))
	rec := g.Expense("EXP-0001")

	assert.Equal(t, requesters[0].name, rec.RequestedBy)
	assert.Equal(t, entity.ExpenseCategories[0], rec.Category)
	assert.Equal(t, MinExpenseAmount, rec.Amount)
	assert.Equal(t, entity.PriorityLow, rec.Priority)
	assert.Equal(t, refTime, rec.RequestDate)
	assert.Empty(t, rec.Tags)
	// chance(4) is true for a zero draw, so no vendor
	assert.Empty(t, rec.Vendor)
}
