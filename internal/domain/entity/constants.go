package entity

// ExpenseStatus is the lifecycle status of an expense request
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "Pending"
	ExpenseStatusApproved ExpenseStatus = "Approved"
	ExpenseStatusRejected ExpenseStatus = "Rejected"
	ExpenseStatusPaid     ExpenseStatus = "Paid"
)

// IsDecided reports whether a decision has been recorded for the status
func (s ExpenseStatus) IsDecided() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected || s == ExpenseStatusPaid
}

// Priority weights an expense for sorting and display
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Rank returns the sort weight of the priority, 0 when unknown
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Expense categories
const (
	CategoryOfficeSupplies = "Office Supplies"
	CategoryTravel         = "Travel"
	CategoryUtilities      = "Utilities"
	CategoryMarketing      = "Marketing"
	CategoryEquipment      = "Equipment"
	CategorySoftware       = "Software"
	CategoryMaintenance    = "Maintenance"
	CategoryTraining       = "Training"
)

// ExpenseCategories is the fixed set of expense categories
var ExpenseCategories = []string{
	CategoryOfficeSupplies,
	CategoryTravel,
	CategoryUtilities,
	CategoryMarketing,
	CategoryEquipment,
	CategorySoftware,
	CategoryMaintenance,
	CategoryTraining,
}

// Departments is the fixed set of departments an expense can be charged to
var Departments = []string{
	"Finance",
	"Operations",
	"Sales",
	"Marketing",
	"IT",
	"Human Resources",
}

// InventoryStatus is the publication status of an inventory item
type InventoryStatus string

const (
	InventoryStatusPublished   InventoryStatus = "Published"
	InventoryStatusUnpublished InventoryStatus = "Unpublished"
	InventoryStatusDraft       InventoryStatus = "Draft"
)

// LowStockThreshold is the stock level below which an item is flagged
const LowStockThreshold = 10

// PurchaseStatus is the status of a purchase order line
type PurchaseStatus string

const (
	PurchaseStatusCompleted PurchaseStatus = "Completed"
	PurchaseStatusPending   PurchaseStatus = "Pending"
	PurchaseStatusCancelled PurchaseStatus = "Cancelled"
	PurchaseStatusReturned  PurchaseStatus = "Returned"
)

// RefundStatus is the lifecycle status of a refund request
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "Pending"
	RefundStatusApproved  RefundStatus = "Approved"
	RefundStatusRejected  RefundStatus = "Rejected"
	RefundStatusProcessed RefundStatus = "Processed"
)

// AccountStatus is the approval status of a merchant account
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "Pending"
	AccountStatusApproved AccountStatus = "Approved"
	AccountStatusRejected AccountStatus = "Rejected"
)

// FilterAll is the sentinel filter value that matches every record
const FilterAll = "All"
