package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

type resourceDetail struct {
	ID         string  `json:"id"`
	ResourceID string  `json:"resource_id"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	Note       string  `json:"note"`
}

type itemDetail struct {
	ID         string           `json:"id"`
	WorkID     string           `json:"work_id"`
	Name       string           `json:"name"`
	Unit       string           `json:"unit"`
	OrderIndex int              `json:"order_index"`
	Volume     float64          `json:"volume"`
	Resources  []resourceDetail `json:"resources"`
}

type workTypeDetail struct {
	ID         string       `json:"id"`
	WorkTypeID string       `json:"work_type_id"`
	Name       string       `json:"name"`
	Percentage float64      `json:"percentage"`
	TypeArea   float64      `json:"type_area"`
	Items      []itemDetail `json:"items"`
}

type sectionDetail struct {
	ID           string           `json:"id"`
	CategoryID   string           `json:"category_id"`
	CategoryName string           `json:"category_name"`
	TotalArea    float64          `json:"total_area"`
	WorkTypes    []workTypeDetail `json:"work_types"`
}

type estimateDetail struct {
	estimateSummary
	Sections []sectionDetail `json:"sections"`
}

// HandleEstimateView returns one estimate with its full section tree:
// sections ordered by category name, each with work types, generated
// items and item resources.
func HandleEstimateView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		record, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		sections, err := buildSectionDetails(app, estimateID)
		if err != nil {
			log.Printf("estimate_view: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомость")
		}

		detail := estimateDetail{
			estimateSummary: estimateSummary{
				ID:            record.Id,
				Name:          record.GetString("name"),
				ObjectName:    record.GetString("object_name"),
				Status:        record.GetString("status"),
				Created:       record.GetDateTime("created").String(),
				Updated:       record.GetDateTime("updated").String(),
				SectionsCount: len(sections),
			},
			Sections: sections,
		}
		return e.JSON(http.StatusOK, detail)
	}
}

// buildSectionDetails loads the persisted section tree for an estimate,
// ordered by category name. Shared with the export builder.
func buildSectionDetails(app *pocketbase.PocketBase, estimateID string) ([]sectionDetail, error) {
	sectionRecords, err := app.FindRecordsByFilter(
		"estimate_sections",
		"estimate = {:id}",
		"", 0, 0,
		map[string]any{"id": estimateID},
	)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	sections := make([]sectionDetail, 0, len(sectionRecords))
	for _, sr := range sectionRecords {
		categoryName := ""
		if category, err := app.FindRecordById("work_categories", sr.GetString("category")); err == nil {
			categoryName = category.GetString("name")
		}

		workTypes, err := buildWorkTypeDetails(app, sr.Id, sr.GetFloat("total_area"))
		if err != nil {
			return nil, err
		}

		sections = append(sections, sectionDetail{
			ID:           sr.Id,
			CategoryID:   sr.GetString("category"),
			CategoryName: categoryName,
			TotalArea:    sr.GetFloat("total_area"),
			WorkTypes:    workTypes,
		})
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].CategoryName < sections[j].CategoryName
	})
	return sections, nil
}

func buildWorkTypeDetails(app *pocketbase.PocketBase, sectionID string, totalArea float64) ([]workTypeDetail, error) {
	swtRecords, err := app.FindRecordsByFilter(
		"section_work_types",
		"section = {:id}",
		"", 0, 0,
		map[string]any{"id": sectionID},
	)
	if err != nil {
		return nil, fmt.Errorf("load section work types: %w", err)
	}

	workTypes := make([]workTypeDetail, 0, len(swtRecords))
	for _, swt := range swtRecords {
		name := ""
		if wt, err := app.FindRecordById("work_types", swt.GetString("work_type")); err == nil {
			name = wt.GetString("name")
		}

		items, err := buildItemDetails(app, swt.Id)
		if err != nil {
			return nil, err
		}

		percentage := swt.GetFloat("percentage")
		workTypes = append(workTypes, workTypeDetail{
			ID:         swt.Id,
			WorkTypeID: swt.GetString("work_type"),
			Name:       name,
			Percentage: percentage,
			TypeArea:   services.CalcTypeArea(totalArea, percentage),
			Items:      items,
		})
	}

	sort.Slice(workTypes, func(i, j int) bool {
		return workTypes[i].Name < workTypes[j].Name
	})
	return workTypes, nil
}

func buildItemDetails(app *pocketbase.PocketBase, sectionWorkTypeID string) ([]itemDetail, error) {
	itemRecords, err := app.FindRecordsByFilter(
		"estimate_items",
		"section_work_type = {:id}",
		"order_index", 0, 0,
		map[string]any{"id": sectionWorkTypeID},
	)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	items := make([]itemDetail, 0, len(itemRecords))
	for _, ir := range itemRecords {
		workName, workUnit := "", ""
		if work, err := app.FindRecordById("works", ir.GetString("work")); err == nil {
			workName = work.GetString("name")
			workUnit = work.GetString("unit")
		}

		resourceRecords, err := app.FindRecordsByFilter(
			"item_resources",
			"item = {:id}",
			"", 0, 0,
			map[string]any{"id": ir.Id},
		)
		if err != nil {
			return nil, fmt.Errorf("load item resources: %w", err)
		}

		resources := make([]resourceDetail, 0, len(resourceRecords))
		for _, rr := range resourceRecords {
			resourceName, resourceUnit := "", ""
			if res, err := app.FindRecordById("resources", rr.GetString("resource")); err == nil {
				resourceName = res.GetString("name")
				resourceUnit = res.GetString("unit")
			}
			resources = append(resources, resourceDetail{
				ID:         rr.Id,
				ResourceID: rr.GetString("resource"),
				Name:       resourceName,
				Unit:       resourceUnit,
				Quantity:   rr.GetFloat("quantity"),
				Note:       rr.GetString("note"),
			})
		}

		items = append(items, itemDetail{
			ID:         ir.Id,
			WorkID:     ir.GetString("work"),
			Name:       workName,
			Unit:       workUnit,
			OrderIndex: ir.GetInt("order_index"),
			Volume:     ir.GetFloat("volume"),
			Resources:  resources,
		})
	}
	return items, nil
}
