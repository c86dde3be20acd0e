package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

// NewCatalogCache builds the shared catalog cache backed by the
// work_categories and work_types collections, both in name order so
// reconciled rows come out in a stable catalog order.
func NewCatalogCache(app *pocketbase.PocketBase) *services.CatalogCache {
	return services.NewCatalogCache(
		func() ([]services.WorkCategory, error) {
			records, err := app.FindRecordsByFilter(
				"work_categories",
				"id != ''",
				"name", 0, 0,
				nil,
			)
			if err != nil {
				return nil, fmt.Errorf("load work categories: %w", err)
			}
			categories := make([]services.WorkCategory, 0, len(records))
			for _, r := range records {
				categories = append(categories, services.WorkCategory{
					ID:   r.Id,
					Name: r.GetString("name"),
				})
			}
			return categories, nil
		},
		func(categoryID string) ([]services.WorkType, error) {
			records, err := app.FindRecordsByFilter(
				"work_types",
				"category = {:id}",
				"name", 0, 0,
				map[string]any{"id": categoryID},
			)
			if err != nil {
				return nil, fmt.Errorf("load work types: %w", err)
			}
			workTypes := make([]services.WorkType, 0, len(records))
			for _, r := range records {
				workTypes = append(workTypes, services.WorkType{
					ID:         r.Id,
					CategoryID: r.GetString("category"),
					Name:       r.GetString("name"),
				})
			}
			return workTypes, nil
		},
	)
}

// HandleWorkCategoryList returns the work-category catalog.
func HandleWorkCategoryList(cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		categories, err := cache.Categories()
		if err != nil {
			log.Printf("work_category_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить справочник")
		}
		return e.JSON(http.StatusOK, map[string]any{"results": categories})
	}
}

// HandleWorkTypeList returns the work types of one category, selected
// with the ?category= query parameter.
func HandleWorkTypeList(cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		categoryID := e.Request.URL.Query().Get("category")
		if categoryID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указана категория работ")
		}

		workTypes, err := cache.WorkTypes(categoryID)
		if err != nil {
			log.Printf("work_type_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить справочник")
		}
		return e.JSON(http.StatusOK, map[string]any{"results": workTypes})
	}
}
