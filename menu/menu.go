package menu

import (
	"sync"
	"time"
)

type Category string

const (
	CategoryFood     Category = "food"
	CategoryBeverage Category = "beverage"
)

type Item struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	Available   int           `json:"available"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	CookTime    time.Duration `json:"cook_time"`
}

// Request is one line of an order batch as submitted by a visitor.
type Request struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Catalog is the dish and stock list for one deployment. It is constructed
// explicitly and injected, never a package global, so tests and rooms can
// hold isolated copies.
type Catalog struct {
	items map[string]*Item
	order []string
	mutex sync.RWMutex
}

func NewCatalog(items []Item) *Catalog {
	c := &Catalog{items: make(map[string]*Item, len(items))}
	for i := range items {
		item := items[i]
		c.items[item.Name] = &item
		c.order = append(c.order, item.Name)
	}
	return c
}

// DefaultCatalog returns the standard bistro menu.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Item{
		{ID: "m1", Name: "Burger", Price: 8.50, Available: 20, Description: "Char-grilled beef, brioche bun", Category: CategoryFood, CookTime: 8 * time.Minute},
		{ID: "m2", Name: "Margherita Pizza", Price: 11.00, Available: 15, Description: "Wood-fired, basil, fior di latte", Category: CategoryFood, CookTime: 12 * time.Minute},
		{ID: "m3", Name: "Carbonara", Price: 12.50, Available: 15, Description: "Guanciale, pecorino, no cream", Category: CategoryFood, CookTime: 10 * time.Minute},
		{ID: "m4", Name: "Caesar Salad", Price: 7.00, Available: 25, Description: "Romaine, anchovy dressing", Category: CategoryFood, CookTime: 4 * time.Minute},
		{ID: "m5", Name: "Ribeye Steak", Price: 19.00, Available: 10, Description: "300g, herb butter", Category: CategoryFood, CookTime: 15 * time.Minute},
		{ID: "m6", Name: "Onion Soup", Price: 6.50, Available: 18, Description: "Gratinated with gruyere", Category: CategoryFood, CookTime: 6 * time.Minute},
		{ID: "m7", Name: "Cola", Price: 2.50, Available: 40, Description: "Bottled, ice and lemon", Category: CategoryBeverage, CookTime: 1 * time.Minute},
		{ID: "m8", Name: "Coffee", Price: 3.00, Available: 40, Description: "Double espresso", Category: CategoryBeverage, CookTime: 2 * time.Minute},
		{ID: "m9", Name: "House Lemonade", Price: 3.50, Available: 30, Description: "Pressed daily", Category: CategoryBeverage, CookTime: 2 * time.Minute},
	})
}

func (c *Catalog) Get(name string) (Item, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	item, ok := c.items[name]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// Items returns the menu in listing order.
func (c *Catalog) Items() []Item {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	out := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.items[name])
	}
	return out
}

// CheckAvailability verifies the whole batch against remaining stock.
// It either passes for every line or fails without touching anything;
// callers must check immediately before Decrement because the pair is not
// transactional across goroutines.
func (c *Catalog) CheckAvailability(reqs []Request) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, req := range reqs {
		item, ok := c.items[req.Name]
		if !ok || req.Quantity <= 0 || item.Available < req.Quantity {
			return false
		}
	}
	return true
}

// Decrement consumes stock for a batch that already passed
// CheckAvailability. Lines for unknown dishes are skipped.
func (c *Catalog) Decrement(reqs []Request) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, req := range reqs {
		if item, ok := c.items[req.Name]; ok && item.Available >= req.Quantity {
			item.Available -= req.Quantity
		}
	}
}

// EstimateTime sums cook time across the batch, per unit ordered.
func (c *Catalog) EstimateTime(reqs []Request) time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var total time.Duration
	for _, req := range reqs {
		if item, ok := c.items[req.Name]; ok {
			total += item.CookTime * time.Duration(req.Quantity)
		}
	}
	return total
}
