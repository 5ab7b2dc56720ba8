package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

var (
	businessNames = []string{"Mama Put Foods", "Lekki Mart", "Ikeja Gadgets", "Aba Textiles", "Kano Grains"}
	accountRoles  = []string{"merchant", "cashier", "manager"}
	paymentStates = []string{"Paid", "Partially Paid", "Unpaid"}
	refundReasons = []string{"Damaged item", "Wrong item delivered", "Customer changed mind", "Duplicate charge", "Expired product"}

	// OutsourcedSuppliers is the pool of third-party suppliers used in demo reports
	OutsourcedSuppliers = []string{
		"Chi Farms", "Eko Packaging", "Abuja Bottlers", "Delta Foods", "Kaduna Mills",
		"Onitsha Traders", "Port Harcourt Cold Chain", "Ibadan Printworks", "Enugu Crafts", "Jos Dairy",
	}
)

// AccountApproval generates one pending account approval
func (g *Generator) AccountApproval(id string) entity.AccountApproval {
	requester := requesters[g.src.IntN(len(requesters))]
	created := g.now().Add(-time.Duration(g.intBetween(1, 14*24)) * time.Hour)
	return entity.AccountApproval{
		ID:           id,
		Name:         requester.name,
		Email:        strings.Replace(requester.email, "@", fmt.Sprintf("+%s@", strings.ToLower(id)), 1),
		BusinessName: g.pick(businessNames),
		Role:         g.pick(accountRoles),
		Status:       entity.AccountStatusPending,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

// AccountApprovals generates n pending accounts with sequential ids
func (g *Generator) AccountApprovals(n int) []entity.AccountApproval {
	out := make([]entity.AccountApproval, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, g.AccountApproval(SequentialID("ACC", i)))
	}
	return out
}

// RefundRequest generates one pending refund no larger than its sale amount
func (g *Generator) RefundRequest(id string) entity.RefundRequest {
	sale := g.floatBetween(MinUnitPrice, MaxUnitPrice)
	created := g.now().Add(-time.Duration(g.intBetween(1, 7*24)) * time.Hour)
	return entity.RefundRequest{
		ID:          id,
		SaleID:      fmt.Sprintf("SALE-%06d", g.intBetween(1, 999999)),
		SaleAmount:  sale,
		Amount:      roundCents(sale * (0.1 + 0.9*g.src.Float64())),
		Reason:      g.pick(refundReasons),
		Status:      entity.RefundStatusPending,
		RequestedBy: requesters[g.src.IntN(len(requesters))].name,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// RefundRequests generates n pending refunds with sequential ids
func (g *Generator) RefundRequests(n int) []entity.RefundRequest {
	out := make([]entity.RefundRequest, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, g.RefundRequest(SequentialID("REF", i)))
	}
	return out
}

// Supplier picks an outsourced supplier name
func (g *Generator) Supplier() string {
	return g.pick(OutsourcedSuppliers)
}

// PaymentStatus picks the payment state of an outsourced order
func (g *Generator) PaymentStatus() string {
	return g.pick(paymentStates)
}
