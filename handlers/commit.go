package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

// runEditBuffer pushes one raw draft through the edit controller and
// returns the parsed value with the decision. committed is the row's
// last stored value; persisted says whether a record backs the row.
// Each request is one complete edit, so the buffer lives only for the
// call; draft state never spans requests.
func runEditBuffer(key services.EditKey, committed float64, persisted bool, raw string) (float64, services.Decision) {
	buffer := services.NewEditBuffer()
	buffer.Begin(key, committed, persisted)
	buffer.Change(key, raw)
	return buffer.Commit(key)
}

// HandleSectionAreaCommit is the inline-edit endpoint for a section's
// total area. The raw draft goes through the edit controller; invalid or
// out-of-range input reverts without touching storage, a no-op returns
// the committed value, and a submit creates or patches the section. The
// response carries the stored (authoritative) value.
func HandleSectionAreaCommit(app *pocketbase.PocketBase, cache *services.CatalogCache, committer *services.Committer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		categoryID := e.Request.PathValue("categoryId")
		if estimateID == "" || categoryID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указаны идентификаторы")
		}

		if _, err := app.FindRecordById("estimates", estimateID); err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		var body struct {
			Value string `json:"value"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}

		row, err := reconciledSectionRow(app, cache, estimateID, categoryID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Категория работ не существует")
		}

		key := services.EditKey{ScopeID: estimateID, CatalogID: categoryID, Field: services.FieldArea}
		value, decision := runEditBuffer(key, row.Area(0), !row.IsPlaceholder(), body.Value)

		switch decision {
		case services.DecisionRevert:
			return e.JSON(http.StatusBadRequest, map[string]any{
				"decision": "reverted",
				"value":    row.Area(0),
				"error":    "Недопустимое значение площади",
			})
		case services.DecisionNoOp:
			return e.JSON(http.StatusOK, map[string]any{
				"decision": "noop",
				"value":    value,
			})
		}

		section, err := committer.CommitSectionArea(estimateID, row, value)
		if err != nil {
			log.Printf("section_area_commit: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сохранить площадь")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"decision": "submitted",
			"value":    section.TotalArea,
			"section": sectionResponse{
				ID:        section.ID,
				Estimate:  section.EstimateID,
				Category:  section.CategoryID,
				TotalArea: section.TotalArea,
			},
		})
	}
}

// HandleWorkTypePercentCommit is the inline-edit endpoint for a work
// type percentage. The section path segment is the section record id
// for persisted sections; for a section that only exists as a board
// placeholder the client sends the category id together with the
// estimate, and the commit fails fast with 409.
func HandleWorkTypePercentCommit(app *pocketbase.PocketBase, cache *services.CatalogCache, committer *services.Committer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sectionID := e.Request.PathValue("sectionId")
		workTypeID := e.Request.PathValue("workTypeId")
		if sectionID == "" || workTypeID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указаны идентификаторы")
		}

		var body struct {
			Value    string `json:"value"`
			Estimate string `json:"estimate"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}

		var sectionRow services.SectionRow
		var categoryID string

		if record, err := app.FindRecordById("estimate_sections", sectionID); err == nil {
			categoryID = record.GetString("category")
			sectionRow = services.SectionRow{
				Category: services.WorkCategory{ID: categoryID},
				Persisted: &services.Section{
					ID:         record.Id,
					EstimateID: record.GetString("estimate"),
					CategoryID: categoryID,
					TotalArea:  record.GetFloat("total_area"),
				},
			}
		} else {
			// Placeholder section: the path segment is the category id.
			if _, err := app.FindRecordById("work_categories", sectionID); err != nil {
				return jsonError(e, http.StatusNotFound, "Раздел не существует")
			}
			categoryID = sectionID
			sectionRow = services.SectionRow{Category: services.WorkCategory{ID: categoryID}}
		}

		row, err := reconciledWorkTypeRow(app, cache, sectionRow, categoryID, workTypeID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Вид работ не существует")
		}

		scopeID := sectionID
		key := services.EditKey{ScopeID: scopeID, CatalogID: workTypeID, Field: services.FieldPercentage}
		value, decision := runEditBuffer(key, row.Percentage(), !row.IsPlaceholder(), body.Value)

		switch decision {
		case services.DecisionRevert:
			return e.JSON(http.StatusBadRequest, map[string]any{
				"decision": "reverted",
				"value":    row.Percentage(),
				"error":    "Недопустимое значение процента",
			})
		case services.DecisionNoOp:
			return e.JSON(http.StatusOK, map[string]any{
				"decision": "noop",
				"value":    value,
			})
		}

		workType, err := committer.CommitWorkTypePercentage(sectionRow, row, value)
		if err != nil {
			if errors.Is(err, services.ErrSectionNotCreated) {
				return jsonError(e, http.StatusConflict, err.Error())
			}
			log.Printf("work_type_percent_commit: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сохранить процент")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"decision": "submitted",
			"value":    workType.Percentage,
			"work_type": sectionWorkTypeResponse{
				ID:         workType.ID,
				Section:    workType.SectionID,
				WorkType:   workType.WorkTypeID,
				Percentage: workType.Percentage,
			},
		})
	}
}

type bulkAreaResult struct {
	CategoryID string  `json:"category_id"`
	Decision   string  `json:"decision"`
	TotalArea  float64 `json:"total_area,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// HandleBulkAreaApply applies one raw area value across every catalog
// category of an estimate. Commits are independent: a failure in one
// category is reported in its result and does not roll back the others.
func HandleBulkAreaApply(app *pocketbase.PocketBase, cache *services.CatalogCache, committer *services.Committer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		if _, err := app.FindRecordById("estimates", estimateID); err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		var body struct {
			Value string `json:"value"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}
		if _, err := strconv.ParseFloat(body.Value, 64); err != nil {
			return jsonError(e, http.StatusBadRequest, "Недопустимое значение площади")
		}

		categories, err := cache.Categories()
		if err != nil {
			log.Printf("bulk_area_apply: catalog unavailable: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Справочник недоступен")
		}

		persisted, err := loadPersistedSections(app, estimateID)
		if err != nil {
			log.Printf("bulk_area_apply: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомость")
		}

		rows := services.ReconcileSections(categories, persisted)
		results := make([]bulkAreaResult, 0, len(rows))

		for _, row := range rows {
			key := services.EditKey{ScopeID: estimateID, CatalogID: row.Category.ID, Field: services.FieldArea}
			value, decision := runEditBuffer(key, row.Area(0), !row.IsPlaceholder(), body.Value)

			switch decision {
			case services.DecisionRevert:
				results = append(results, bulkAreaResult{
					CategoryID: row.Category.ID,
					Decision:   "reverted",
					Error:      "Недопустимое значение площади",
				})
				continue
			case services.DecisionNoOp:
				results = append(results, bulkAreaResult{
					CategoryID: row.Category.ID,
					Decision:   "noop",
					TotalArea:  value,
				})
				continue
			}

			section, err := committer.CommitSectionArea(estimateID, row, value)
			if err != nil {
				log.Printf("bulk_area_apply: commit %s: %v", row.Category.ID, err)
				results = append(results, bulkAreaResult{
					CategoryID: row.Category.ID,
					Decision:   "error",
					Error:      "Не удалось сохранить площадь",
				})
				continue
			}
			results = append(results, bulkAreaResult{
				CategoryID: row.Category.ID,
				Decision:   "submitted",
				TotalArea:  section.TotalArea,
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"estimate_id": estimateID,
			"results":     results,
		})
	}
}

// reconciledSectionRow merges the catalog with the persisted sections
// and returns the row for one category.
func reconciledSectionRow(app *pocketbase.PocketBase, cache *services.CatalogCache, estimateID, categoryID string) (services.SectionRow, error) {
	categories, err := cache.Categories()
	if err != nil {
		return services.SectionRow{}, err
	}
	persisted, err := loadPersistedSections(app, estimateID)
	if err != nil {
		return services.SectionRow{}, err
	}
	for _, row := range services.ReconcileSections(categories, persisted) {
		if row.Category.ID == categoryID {
			return row, nil
		}
	}
	return services.SectionRow{}, errors.New("категория не найдена в справочнике")
}

// reconciledWorkTypeRow merges the category's work-type catalog with the
// section's persisted rows and returns the row for one work type.
func reconciledWorkTypeRow(app *pocketbase.PocketBase, cache *services.CatalogCache, section services.SectionRow, categoryID, workTypeID string) (services.WorkTypeRow, error) {
	workTypes, err := cache.WorkTypes(categoryID)
	if err != nil {
		return services.WorkTypeRow{}, err
	}
	var persisted []services.SectionWorkType
	if section.Persisted != nil {
		persisted, err = loadPersistedWorkTypes(app, section.Persisted.ID)
		if err != nil {
			return services.WorkTypeRow{}, err
		}
	}
	for _, row := range services.ReconcileWorkTypes(workTypes, persisted) {
		if row.WorkType.ID == workTypeID {
			return row, nil
		}
	}
	return services.WorkTypeRow{}, errors.New("вид работ не найден в справочнике")
}
