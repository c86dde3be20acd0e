package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

// pbStore backs the commit protocol with PocketBase records. Writes
// carry their follow-up recalculation: creating or updating a row keeps
// the generated items consistent with the new numbers.
type pbStore struct {
	app *pocketbase.PocketBase
}

// NewStore returns the PocketBase-backed store the commit protocol
// writes through.
func NewStore(app *pocketbase.PocketBase) services.Store {
	return &pbStore{app: app}
}

func (s *pbStore) CreateSection(estimateID, categoryID string, totalArea float64) (services.Section, error) {
	col, err := s.app.FindCollectionByNameOrId("estimate_sections")
	if err != nil {
		return services.Section{}, fmt.Errorf("collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("category", categoryID)
	record.Set("total_area", totalArea)
	if err := s.app.Save(record); err != nil {
		return services.Section{}, fmt.Errorf("create section: %w", err)
	}

	return services.Section{
		ID:         record.Id,
		EstimateID: record.GetString("estimate"),
		CategoryID: record.GetString("category"),
		TotalArea:  record.GetFloat("total_area"),
	}, nil
}

func (s *pbStore) UpdateSectionArea(sectionID string, totalArea float64) (services.Section, error) {
	record, err := s.app.FindRecordById("estimate_sections", sectionID)
	if err != nil {
		return services.Section{}, fmt.Errorf("section not found: %w", err)
	}

	record.Set("total_area", totalArea)
	if err := s.app.Save(record); err != nil {
		return services.Section{}, fmt.Errorf("update section area: %w", err)
	}

	if err := recalcSectionVolumes(s.app, sectionID); err != nil {
		return services.Section{}, err
	}

	return services.Section{
		ID:         record.Id,
		EstimateID: record.GetString("estimate"),
		CategoryID: record.GetString("category"),
		TotalArea:  record.GetFloat("total_area"),
	}, nil
}

func (s *pbStore) CreateSectionWorkType(sectionID, workTypeID string, percentage float64) (services.SectionWorkType, error) {
	col, err := s.app.FindCollectionByNameOrId("section_work_types")
	if err != nil {
		return services.SectionWorkType{}, fmt.Errorf("collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("section", sectionID)
	record.Set("work_type", workTypeID)
	record.Set("percentage", percentage)
	if err := s.app.Save(record); err != nil {
		return services.SectionWorkType{}, fmt.Errorf("create section work type: %w", err)
	}

	if err := syncItemsFromTemplate(s.app, record.Id); err != nil {
		return services.SectionWorkType{}, err
	}

	return services.SectionWorkType{
		ID:         record.Id,
		SectionID:  record.GetString("section"),
		WorkTypeID: record.GetString("work_type"),
		Percentage: record.GetFloat("percentage"),
	}, nil
}

func (s *pbStore) UpdateSectionWorkTypePercentage(id string, percentage float64) (services.SectionWorkType, error) {
	record, err := s.app.FindRecordById("section_work_types", id)
	if err != nil {
		return services.SectionWorkType{}, fmt.Errorf("section work type not found: %w", err)
	}

	record.Set("percentage", percentage)
	if err := s.app.Save(record); err != nil {
		return services.SectionWorkType{}, fmt.Errorf("update percentage: %w", err)
	}

	if err := recalcWorkTypeVolumes(s.app, id); err != nil {
		return services.SectionWorkType{}, err
	}

	return services.SectionWorkType{
		ID:         record.Id,
		SectionID:  record.GetString("section"),
		WorkTypeID: record.GetString("work_type"),
		Percentage: record.GetFloat("percentage"),
	}, nil
}
