package services

import (
	"errors"
	"sync"
)

// ErrSectionNotCreated is returned when a percentage commit targets a
// work type under a section that is still a placeholder. The section
// must be created first; the protocol never cascades parent creation.
var ErrSectionNotCreated = errors.New("сначала укажите площадь раздела")

// Store is the persistence boundary the commit protocol writes through.
// Handlers back it with PocketBase records; tests use a fake. Create
// calls return the stored entity because storage is authoritative for
// the value actually kept (it may round or clamp).
type Store interface {
	CreateSection(estimateID, categoryID string, totalArea float64) (Section, error)
	UpdateSectionArea(sectionID string, totalArea float64) (Section, error)
	CreateSectionWorkType(sectionID, workTypeID string, percentage float64) (SectionWorkType, error)
	UpdateSectionWorkTypePercentage(id string, percentage float64) (SectionWorkType, error)
}

// Committer decides, per edit, between creating a new record and
// patching an existing one. Commits on the same key are serialized
// through a per-key lock so rapid edits of one row cannot interleave:
// the last commit issued is the last one applied. The lock map keeps
// one mutex per edited key for the life of the process and is never
// pruned.
type Committer struct {
	store Store

	mu    sync.Mutex
	locks map[EditKey]*sync.Mutex
}

func NewCommitter(store Store) *Committer {
	return &Committer{
		store: store,
		locks: make(map[EditKey]*sync.Mutex),
	}
}

func (c *Committer) keyLock(key EditKey) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// CommitSectionArea persists a new total area for a section row:
// placeholder rows become real via create, persisted rows get a partial
// update of total_area only. The returned section carries the stored
// value, which callers must adopt in place of the input.
func (c *Committer) CommitSectionArea(estimateID string, row SectionRow, totalArea float64) (Section, error) {
	key := EditKey{ScopeID: estimateID, CatalogID: row.Category.ID, Field: FieldArea}
	l := c.keyLock(key)
	l.Lock()
	defer l.Unlock()

	if row.IsPlaceholder() {
		return c.store.CreateSection(estimateID, row.Category.ID, totalArea)
	}
	return c.store.UpdateSectionArea(row.Persisted.ID, totalArea)
}

// CommitWorkTypePercentage persists a new percentage for a work-type row
// under the given section row. When the section itself is still a
// placeholder the commit fails fast with ErrSectionNotCreated.
func (c *Committer) CommitWorkTypePercentage(section SectionRow, row WorkTypeRow, percentage float64) (SectionWorkType, error) {
	if section.IsPlaceholder() {
		return SectionWorkType{}, ErrSectionNotCreated
	}

	key := EditKey{ScopeID: section.Persisted.ID, CatalogID: row.WorkType.ID, Field: FieldPercentage}
	l := c.keyLock(key)
	l.Lock()
	defer l.Unlock()

	if row.IsPlaceholder() {
		return c.store.CreateSectionWorkType(section.Persisted.ID, row.WorkType.ID, percentage)
	}
	return c.store.UpdateSectionWorkTypePercentage(row.Persisted.ID, percentage)
}
