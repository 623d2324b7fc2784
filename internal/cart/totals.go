package cart

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the monetary breakdown for a cart at a point in time.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals derives the cart's monetary breakdown. The discount applies
// to the subtotal, and tax is charged on the discounted base:
//
//	subtotal = Σ line.price × line.quantity
//	discount = subtotal × percent / 100
//	tax      = (subtotal − discount) × taxRate / 100
//	total    = (subtotal − discount) + tax
//
// Discount and tax are rounded to cents before the total is taken, so the
// stored breakdown always re-adds: total = subtotal − discount + tax.
func ComputeTotals(c *Cart, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range c.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.Price.Mul(qty))
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if c.Discount != nil {
		discount = subtotal.Mul(c.Discount.Percent).Div(hundred).Round(2)
	}

	base := subtotal.Sub(discount)
	tax := base.Mul(taxRatePercent).Div(hundred).Round(2)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Tax:            tax,
		Total:          base.Add(tax),
	}
}
