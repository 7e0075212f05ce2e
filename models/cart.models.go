package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product entry in the cart, keyed by ProductID. The unit
// price is copied from the product when the line is created so the cart
// keeps showing the price the customer saw.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ImageRef  string             `bson:"image_ref" json:"image_ref"`
}

// Cart represents a user's shopping cart. No two lines share a ProductID,
// and a line whose quantity would drop below 1 is removed rather than kept
// at zero.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Lines  []CartLine         `bson:"lines" json:"lines"`
}

// Add puts one unit of product in the cart: an existing line gets its
// quantity bumped by one, otherwise a new line starts at quantity 1.
func (c *Cart) Add(p Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageRef:  p.ImageRef,
	})
}

// SetQuantity sets the line for productID to n. n <= 0 removes the line.
// Unknown product IDs are a no-op.
func (c *Cart) SetQuantity(productID primitive.ObjectID, n int) {
	if n <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = n
			return
		}
	}
}

// Remove deletes the line for productID if present.
func (c *Cart) Remove(productID primitive.ObjectID) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalItems is the sum of line quantities. Recomputed from the lines on
// every call so it can never drift from them.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}
