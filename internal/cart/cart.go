// Package cart holds a consumer's session cart: product id to requested quantity.
package cart

import "sort"

// Cart is a snapshot value. Quantities are always positive.
type Cart struct {
	items map[string]int
}

type Line struct {
	ProductID string
	Quantity  int
}

func New(items map[string]int) Cart {
	c := Cart{items: make(map[string]int, len(items))}
	for id, qty := range items {
		c.Set(id, qty)
	}
	return c
}

// Set stores qty for productID, removing the entry when qty <= 0.
func (c *Cart) Set(productID string, qty int) {
	if c.items == nil {
		c.items = make(map[string]int)
	}
	if qty <= 0 {
		delete(c.items, productID)
		return
	}
	c.items[productID] = qty
}

func (c Cart) Quantity(productID string) int { return c.items[productID] }

func (c Cart) Empty() bool { return len(c.items) == 0 }

func (c Cart) Len() int { return len(c.items) }

func (c Cart) TotalItems() int {
	n := 0
	for _, qty := range c.items {
		n += qty
	}
	return n
}

// Lines returns the entries sorted by product id.
func (c Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.items))
	for id, qty := range c.items {
		lines = append(lines, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}
