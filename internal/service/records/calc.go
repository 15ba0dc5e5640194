package records

import (
	"math"

	"github.com/shopspring/decimal"
)

// PriceWithTax returns the tax-inclusive price rounded to two places.
// Non-finite inputs yield 0.
func PriceWithTax(price, taxRatePercent float64) float64 {
	if !finite(price) || !finite(taxRatePercent) {
		return 0
	}
	return Round2(price + price*taxRatePercent/100)
}

// ProfitMarginPercent returns (selling-purchase)/purchase*100 rounded to two
// places, or 0 when the purchase price is zero or an input is not finite.
func ProfitMarginPercent(sellingPrice, purchasePrice float64) float64 {
	if !finite(sellingPrice) || !finite(purchasePrice) || purchasePrice == 0 {
		return 0
	}
	return Round2((sellingPrice - purchasePrice) / purchasePrice * 100)
}

// ProfitAmount returns selling-purchase rounded to two places.
func ProfitAmount(sellingPrice, purchasePrice float64) float64 {
	if !finite(sellingPrice) || !finite(purchasePrice) {
		return 0
	}
	return Round2(sellingPrice - purchasePrice)
}

// Round2 rounds half away from zero on the shortest decimal form of v, so
// 1.005 becomes 1.01.
func Round2(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
