package services

import "sync"

// CatalogCache is a read-through cache for the reference catalog. The
// catalog is fetched once per process and reused by every reconciliation;
// it is never mutated here. Invalidate drops the cache after out-of-band
// catalog edits (admin UI, reseed).
type CatalogCache struct {
	loadCategories func() ([]WorkCategory, error)
	loadWorkTypes  func(categoryID string) ([]WorkType, error)

	mu         sync.Mutex
	categories []WorkCategory
	workTypes  map[string][]WorkType
}

func NewCatalogCache(
	loadCategories func() ([]WorkCategory, error),
	loadWorkTypes func(categoryID string) ([]WorkType, error),
) *CatalogCache {
	return &CatalogCache{
		loadCategories: loadCategories,
		loadWorkTypes:  loadWorkTypes,
		workTypes:      make(map[string][]WorkType),
	}
}

// Categories returns the full work-category catalog, loading it on first
// use.
func (c *CatalogCache) Categories() ([]WorkCategory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.categories == nil {
		categories, err := c.loadCategories()
		if err != nil {
			return nil, err
		}
		c.categories = categories
	}
	return c.categories, nil
}

// WorkTypes returns the work-type catalog for one category, loading it
// on first use.
func (c *CatalogCache) WorkTypes(categoryID string) ([]WorkType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.workTypes[categoryID]; !ok {
		workTypes, err := c.loadWorkTypes(categoryID)
		if err != nil {
			return nil, err
		}
		c.workTypes[categoryID] = workTypes
	}
	return c.workTypes[categoryID], nil
}

// Invalidate drops everything cached so the next read hits storage.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = nil
	c.workTypes = make(map[string][]WorkType)
}
