// Package services holds the pure estimate logic: catalog reconciliation,
// inline-edit handling, percentage checks, table flattening and export
// document generation.
package services

// WorkCategory is a reference catalog entry (Полы, Кровля, Стены, ...).
type WorkCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkType is a catalog entry scoped to one category
// (Линолеум спортивный, Плитка керамогранит, ...).
type WorkType struct {
	ID         string `json:"id"`
	CategoryID string `json:"category"`
	Name       string `json:"name"`
}

// Section is a persisted estimate_sections record: "this estimate
// includes this work category with this total area".
type Section struct {
	ID         string  `json:"id"`
	EstimateID string  `json:"estimate"`
	CategoryID string  `json:"work_category"`
	TotalArea  float64 `json:"total_area"`
}

// SectionWorkType is a persisted section_work_types record: "this section
// allocates this percentage to this work type".
type SectionWorkType struct {
	ID         string  `json:"id"`
	SectionID  string  `json:"section"`
	WorkTypeID string  `json:"work_type"`
	Percentage float64 `json:"percentage"`
}

// SectionRow is one reconciled row of the estimate board. Persisted is
// nil for a placeholder row standing in for a catalog category the
// estimate has no section for yet. Placeholders are never updated or
// deleted against storage, only created.
type SectionRow struct {
	Category  WorkCategory
	Persisted *Section
}

func (r SectionRow) IsPlaceholder() bool { return r.Persisted == nil }

// Key is the stable synthetic identity of the row. Placeholders carry no
// record id, so the catalog category id serves for both variants.
func (r SectionRow) Key() string { return r.Category.ID }

// Area returns the committed total area, or defaultArea for placeholders
// (the estimate's building area when one has been established).
func (r SectionRow) Area(defaultArea float64) float64 {
	if r.Persisted == nil {
		return defaultArea
	}
	return r.Persisted.TotalArea
}

// WorkTypeRow is one reconciled row of a section card: a catalog work
// type with the section's persisted percentage entry, or a placeholder.
type WorkTypeRow struct {
	WorkType  WorkType
	Persisted *SectionWorkType
}

func (r WorkTypeRow) IsPlaceholder() bool { return r.Persisted == nil }

// Key is the stable synthetic identity of the row across re-merges.
func (r WorkTypeRow) Key() string { return r.WorkType.ID }

// Percentage returns the committed percentage; placeholders contribute 0.
func (r WorkTypeRow) Percentage() float64 {
	if r.Persisted == nil {
		return 0
	}
	return r.Persisted.Percentage
}

// ReconcileSections merges the category catalog with the estimate's
// persisted sections. The result has exactly one row per catalog
// category, in catalog order: the persisted section when the estimate
// has one, a placeholder otherwise. Categories are never omitted and
// never duplicated, so deleting a section and re-reconciling brings the
// category back as a placeholder instead of dropping it.
func ReconcileSections(catalog []WorkCategory, persisted []Section) []SectionRow {
	byCategory := make(map[string]*Section, len(persisted))
	for i := range persisted {
		byCategory[persisted[i].CategoryID] = &persisted[i]
	}

	rows := make([]SectionRow, 0, len(catalog))
	for _, category := range catalog {
		rows = append(rows, SectionRow{
			Category:  category,
			Persisted: byCategory[category.ID],
		})
	}
	return rows
}

// ReconcileWorkTypes is the same merge one level down, scoped to a single
// section's category: one row per catalog work type, placeholder rows
// with percentage 0 for types the section does not allocate yet.
func ReconcileWorkTypes(catalog []WorkType, persisted []SectionWorkType) []WorkTypeRow {
	byWorkType := make(map[string]*SectionWorkType, len(persisted))
	for i := range persisted {
		byWorkType[persisted[i].WorkTypeID] = &persisted[i]
	}

	rows := make([]WorkTypeRow, 0, len(catalog))
	for _, workType := range catalog {
		rows = append(rows, WorkTypeRow{
			WorkType:  workType,
			Persisted: byWorkType[workType.ID],
		})
	}
	return rows
}
