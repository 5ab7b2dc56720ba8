package format

import (
	"math"
	"strconv"
)

// Percent renders value with one decimal and a percent sign. NaN renders "0%".
func Percent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0%"
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

// PercentPtr renders a missing value as "0%"
func PercentPtr(value *float64) string {
	if value == nil {
		return "0%"
	}
	return Percent(*value)
}
