package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

type boardWorkTypeRow struct {
	WorkTypeID        string  `json:"work_type_id"`
	Name              string  `json:"name"`
	SectionWorkTypeID string  `json:"section_work_type_id,omitempty"`
	Percentage        float64 `json:"percentage"`
	Placeholder       bool    `json:"placeholder"`
}

type boardSectionRow struct {
	CategoryID    string                 `json:"category_id"`
	CategoryName  string                 `json:"category_name"`
	SectionID     string                 `json:"section_id,omitempty"`
	TotalArea     float64                `json:"total_area"`
	Placeholder   bool                   `json:"placeholder"`
	WorkTypes     []boardWorkTypeRow     `json:"work_types"`
	PercentStatus services.PercentStatus `json:"percent_status"`
}

type boardResponse struct {
	EstimateID string            `json:"estimate_id"`
	Sections   []boardSectionRow `json:"sections"`
	Warning    string            `json:"warning,omitempty"`
}

// HandleEstimateBoard returns the reconciled editing view of an
// estimate: one row per catalog category regardless of what is
// persisted, each with its reconciled work-type rows and the advisory
// percentage status. When the catalog cannot be loaded the board
// degrades to the persisted sections only and carries a warning.
func HandleEstimateBoard(app *pocketbase.PocketBase, cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		if _, err := app.FindRecordById("estimates", estimateID); err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		persisted, err := loadPersistedSections(app, estimateID)
		if err != nil {
			log.Printf("estimate_board: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомость")
		}

		categories, err := cache.Categories()
		if err != nil {
			log.Printf("estimate_board: catalog unavailable: %v", err)
			return e.JSON(http.StatusOK, degradedBoard(app, estimateID, persisted))
		}

		rows := services.ReconcileSections(categories, persisted)

		sections := make([]boardSectionRow, 0, len(rows))
		warning := ""
		for _, row := range rows {
			section := boardSectionRow{
				CategoryID:   row.Category.ID,
				CategoryName: row.Category.Name,
				TotalArea:    row.Area(0),
				Placeholder:  row.IsPlaceholder(),
				WorkTypes:    []boardWorkTypeRow{},
			}
			if row.Persisted != nil {
				section.SectionID = row.Persisted.ID
			}

			workTypes, err := cache.WorkTypes(row.Category.ID)
			if err != nil {
				log.Printf("estimate_board: work types unavailable for %s: %v", row.Category.ID, err)
				warning = "Справочник видов работ доступен не полностью"
				sections = append(sections, section)
				continue
			}

			var persistedTypes []services.SectionWorkType
			if row.Persisted != nil {
				persistedTypes, err = loadPersistedWorkTypes(app, row.Persisted.ID)
				if err != nil {
					log.Printf("estimate_board: %v", err)
					return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомость")
				}
			}

			typeRows := services.ReconcileWorkTypes(workTypes, persistedTypes)
			for _, tr := range typeRows {
				wt := boardWorkTypeRow{
					WorkTypeID:  tr.WorkType.ID,
					Name:        tr.WorkType.Name,
					Percentage:  tr.Percentage(),
					Placeholder: tr.IsPlaceholder(),
				}
				if tr.Persisted != nil {
					wt.SectionWorkTypeID = tr.Persisted.ID
				}
				section.WorkTypes = append(section.WorkTypes, wt)
			}
			section.PercentStatus = services.CheckPercentages(typeRows)

			sections = append(sections, section)
		}

		return e.JSON(http.StatusOK, boardResponse{
			EstimateID: estimateID,
			Sections:   sections,
			Warning:    warning,
		})
	}
}

// degradedBoard renders what is persisted when the catalog is down: no
// placeholders, no work-type reconciliation, just the stored sections.
func degradedBoard(app *pocketbase.PocketBase, estimateID string, persisted []services.Section) boardResponse {
	sections := make([]boardSectionRow, 0, len(persisted))
	for _, s := range persisted {
		categoryName := ""
		if category, err := app.FindRecordById("work_categories", s.CategoryID); err == nil {
			categoryName = category.GetString("name")
		}
		sections = append(sections, boardSectionRow{
			CategoryID:   s.CategoryID,
			CategoryName: categoryName,
			SectionID:    s.ID,
			TotalArea:    s.TotalArea,
			WorkTypes:    []boardWorkTypeRow{},
		})
	}
	return boardResponse{
		EstimateID: estimateID,
		Sections:   sections,
		Warning:    "Справочник недоступен, показаны только сохранённые разделы",
	}
}

func loadPersistedSections(app *pocketbase.PocketBase, estimateID string) ([]services.Section, error) {
	records, err := app.FindRecordsByFilter(
		"estimate_sections",
		"estimate = {:id}",
		"", 0, 0,
		map[string]any{"id": estimateID},
	)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	sections := make([]services.Section, 0, len(records))
	for _, r := range records {
		sections = append(sections, services.Section{
			ID:         r.Id,
			EstimateID: r.GetString("estimate"),
			CategoryID: r.GetString("category"),
			TotalArea:  r.GetFloat("total_area"),
		})
	}
	return sections, nil
}

func loadPersistedWorkTypes(app *pocketbase.PocketBase, sectionID string) ([]services.SectionWorkType, error) {
	records, err := app.FindRecordsByFilter(
		"section_work_types",
		"section = {:id}",
		"", 0, 0,
		map[string]any{"id": sectionID},
	)
	if err != nil {
		return nil, fmt.Errorf("load section work types: %w", err)
	}
	workTypes := make([]services.SectionWorkType, 0, len(records))
	for _, r := range records {
		workTypes = append(workTypes, services.SectionWorkType{
			ID:         r.Id,
			SectionID:  r.GetString("section"),
			WorkTypeID: r.GetString("work_type"),
			Percentage: r.GetFloat("percentage"),
		})
	}
	return workTypes, nil
}
