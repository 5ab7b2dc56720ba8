package generator

var (
	expenseTitles = []string{
		"Printer toner restock",
		"Quarterly software licences",
		"Client visit travel",
		"Generator diesel",
		"Staff training workshop",
		"Social media campaign",
		"POS terminal repair",
		"Internet subscription",
		"Office furniture",
		"Warehouse shelving",
	}

	vendors = []string{
		"Jumia Business",
		"Konga Office",
		"MTN Business",
		"Total Energies",
		"Slot Systems",
		"Dangote Logistics",
		"Andela Learning",
		"Paystack Services",
	}

	requesters = []struct {
		name  string
		email string
	}{
		{"Adaeze Okafor", "adaeze.okafor@example.com"},
		{"Tunde Bakare", "tunde.bakare@example.com"},
		{"Ngozi Eze", "ngozi.eze@example.com"},
		{"Ibrahim Musa", "ibrahim.musa@example.com"},
		{"Folake Adeyemi", "folake.adeyemi@example.com"},
	}

	expenseTags = []string{"recurring", "urgent", "capex", "opex", "q1", "q2", "q3", "q4", "audit"}

	priorities = []string{"Low", "Medium", "High", "Urgent"}

	inventoryCategories = []string{
		"Beverages",
		"Groceries",
		"Electronics",
		"Household",
		"Personal Care",
		"Stationery",
	}

	brands = []string{
		"Nestle",
		"Dangote",
		"Samsung",
		"Unilever",
		"Procter & Gamble",
		"Tecno",
		"Peak",
		"Indomie",
	}

	productNouns = []string{"Pack", "Bundle", "Carton", "Bottle", "Set", "Kit", "Box"}

	inventoryStatuses = []string{"Published", "Unpublished", "Draft"}

	orderTypes = []string{"In-Store", "Online", "Wholesale", "Phone"}

	purchaseStatuses = []string{"Completed", "Pending", "Cancelled", "Returned"}
)
