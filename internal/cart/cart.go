package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart. Product data is snapshotted at add
// time so the cart survives catalog edits within a session.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// AppliedDiscount records the discount code attached to the cart.
type AppliedDiscount struct {
	Code    string          `json:"code"`
	Percent decimal.Decimal `json:"percent"`
}

// Cart is the session-scoped shopping aggregate. It holds at most one line
// per product and at most one applied discount.
type Cart struct {
	Lines    []Line           `json:"lines"`
	Discount *AppliedDiscount `json:"discount,omitempty"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalQuantity sums quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges the given line into the cart. An existing line for the same
// product has its quantity incremented; line order is insertion order.
func (c *Cart) Add(line Line) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if idx := c.lineIndex(line.ProductID); idx >= 0 {
		c.Lines[idx].Quantity += line.Quantity
		return
	}
	c.Lines = append(c.Lines, line)
}

// Remove drops the line for the product. Removing an absent product is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	idx := c.lineIndex(productID)
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if idx := c.lineIndex(productID); idx >= 0 {
		c.Lines[idx].Quantity = qty
	}
}

// AdjustQuantity applies a relative delta to a line. The result never drops
// below one; use Remove or SetQuantity(0) to take a line out.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta int) {
	idx := c.lineIndex(productID)
	if idx < 0 {
		return
	}
	next := c.Lines[idx].Quantity + delta
	if next < 1 {
		next = 1
	}
	c.Lines[idx].Quantity = next
}

// Clear empties the cart and drops any applied discount.
func (c *Cart) Clear() {
	c.Lines = nil
	c.Discount = nil
}
