package generator

import (
	"fmt"
	"time"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// Expense amount range
const (
	MinExpenseAmount = 1000.0
	MaxExpenseAmount = 500000.0
	expenseLookback  = 30
)

// Expense generates one pending expense request
func (g *Generator) Expense(id string) entity.ExpenseRecord {
	requester := requesters[g.src.IntN(len(requesters))]
	category := g.pick(entity.ExpenseCategories)
	requestDate := g.now().Add(-time.Duration(g.intBetween(0, expenseLookback*24*60)) * time.Minute)

	rec := entity.ExpenseRecord{
		ID:               id,
		Title:            g.pick(expenseTitles),
		Category:         category,
		Department:       g.pick(entity.Departments),
		Amount:           g.floatBetween(MinExpenseAmount, MaxExpenseAmount),
		Currency:         "NGN",
		Status:           entity.ExpenseStatusPending,
		Priority:         entity.Priority(g.pick(priorities)),
		RequestDate:      requestDate,
		RequestedBy:      requester.name,
		RequestedByEmail: requester.email,
		Tags:             g.tags(),
	}
	rec.Description = fmt.Sprintf("%s request for %s", category, rec.Department)

	if !g.chance(4) {
		rec.Vendor = g.pick(vendors)
		rec.InvoiceNumber = fmt.Sprintf("INV-%06d", g.intBetween(1, 999999))
	}

	return rec
}

// Expenses generates n expenses with sequential ids
func (g *Generator) Expenses(n int) []entity.ExpenseRecord {
	out := make([]entity.ExpenseRecord, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, g.Expense(SequentialID("EXP", i)))
	}
	return out
}

// tags draws up to three distinct tags
func (g *Generator) tags() []string {
	n := g.intBetween(0, 3)
	seen := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for len(tags) < n {
		tag := g.pick(expenseTags)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
