package types

// Cache memoizes the pure operations in this package by (operation,
// operand keys), scoped to a single analyzer worker (spec §5: "the type
// memoization cache is thread-local per worker to avoid contention").
// Callers construct one per goroutine; it is never shared across workers.
type Cache struct {
	union     map[[2]string]*Type
	intersect map[[2]string]*Type
	subtype   map[[2]string]Subtype
}

// NewCache returns an empty, ready-to-use Cache.
func NewCache() *Cache {
	return &Cache{
		union:     make(map[[2]string]*Type),
		intersect: make(map[[2]string]*Type),
		subtype:   make(map[[2]string]Subtype),
	}
}

func (c *Cache) Union(a, b *Type) *Type {
	key := pairKey(a, b)
	if v, ok := c.union[key]; ok {
		return v
	}
	v := Union(a, b)
	c.union[key] = v
	return v
}

func (c *Cache) Intersect(a, b *Type) *Type {
	key := pairKey(a, b)
	if v, ok := c.intersect[key]; ok {
		return v
	}
	v := Intersect(a, b)
	c.intersect[key] = v
	return v
}

func (c *Cache) IsSubtype(a, b *Type) Subtype {
	key := pairKey(a, b)
	if v, ok := c.subtype[key]; ok {
		return v
	}
	v := IsSubtype(a, b)
	c.subtype[key] = v
	return v
}

func pairKey(a, b *Type) [2]string {
	return [2]string{a.Key(), b.Key()}
}
