package registry

// Collection is an insertion-ordered set of applications.
type Collection struct {
	items []Application
}

// Add appends app to the collection.
func (c *Collection) Add(app Application) {
	c.items = append(c.items, app)
}

// Find returns the first record matching pred.
func (c *Collection) Find(pred func(Application) bool) (Application, bool) {
	for _, it := range c.items {
		if pred(it) {
			return it, true
		}
	}
	return Application{}, false
}

// Remove drops every record matching pred and reports whether any was removed.
func (c *Collection) Remove(pred func(Application) bool) bool {
	kept := c.items[:0]
	removed := false
	for _, it := range c.items {
		if pred(it) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	// clear the tail so dropped records are not retained by the backing array
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = Application{}
	}
	c.items = kept
	return removed
}

// All returns a copy of the records in insertion order.
func (c *Collection) All() []Application {
	out := make([]Application, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of stored records.
func (c *Collection) Len() int {
	return len(c.items)
}
