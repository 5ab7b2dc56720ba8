package format

// NeutralClass is used for any status or priority without a mapping
const NeutralClass = "bg-gray-100 text-gray-800"

var statusClasses = map[string]string{
	"Pending":     "bg-yellow-100 text-yellow-800",
	"Approved":    "bg-green-100 text-green-800",
	"Rejected":    "bg-red-100 text-red-800",
	"Paid":        "bg-blue-100 text-blue-800",
	"Processed":   "bg-blue-100 text-blue-800",
	"Published":   "bg-green-100 text-green-800",
	"Unpublished": "bg-red-100 text-red-800",
	"Draft":       "bg-gray-100 text-gray-600",
	"Completed":   "bg-green-100 text-green-800",
	"Cancelled":   "bg-red-100 text-red-800",
	"Returned":    "bg-orange-100 text-orange-800",
}

var priorityClasses = map[string]string{
	"Urgent": "bg-red-100 text-red-800",
	"High":   "bg-orange-100 text-orange-800",
	"Medium": "bg-yellow-100 text-yellow-800",
	"Low":    "bg-green-100 text-green-800",
}

// StatusColor returns the badge class for a status
func StatusColor(status string) string {
	if class, ok := statusClasses[status]; ok {
		return class
	}
	return NeutralClass
}

// PriorityColor returns the badge class for a priority
func PriorityColor(priority string) string {
	if class, ok := priorityClasses[priority]; ok {
		return class
	}
	return NeutralClass
}

// StockColor returns the badge class for a stock count
func StockColor(inStock int) string {
	switch {
	case inStock <= 0:
		return "bg-red-100 text-red-800"
	case inStock < 10:
		return "bg-yellow-100 text-yellow-800"
	default:
		return "bg-green-100 text-green-800"
	}
}
