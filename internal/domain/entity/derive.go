package entity

import "github.com/shopspring/decimal"

// TotalValue is the stock value of an item: (unitPrice - discount) * inStock
func TotalValue(unitPrice, discount float64, inStock int) float64 {
	return lineTotal(unitPrice, discount, inStock)
}

// OrderTotal is the value of a purchase line: (unitPrice - discount) * quantity
func OrderTotal(unitPrice, discount float64, quantity int) float64 {
	return lineTotal(unitPrice, discount, quantity)
}

func lineTotal(price, discount float64, qty int) float64 {
	net := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(discount))
	total, _ := net.Mul(decimal.NewFromInt(int64(qty))).Round(2).Float64()
	return total
}
