package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type sectionResponse struct {
	ID        string  `json:"id"`
	Estimate  string  `json:"estimate"`
	Category  string  `json:"category"`
	TotalArea float64 `json:"total_area"`
}

func sectionToResponse(r *core.Record) sectionResponse {
	return sectionResponse{
		ID:        r.Id,
		Estimate:  r.GetString("estimate"),
		Category:  r.GetString("category"),
		TotalArea: r.GetFloat("total_area"),
	}
}

// HandleSectionCreate creates an estimate section for one catalog
// category. An estimate holds at most one section per category.
func HandleSectionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Estimate     string  `json:"estimate"`
			WorkCategory string  `json:"work_category"`
			TotalArea    float64 `json:"total_area"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}
		if body.Estimate == "" || body.WorkCategory == "" {
			return jsonError(e, http.StatusBadRequest, "Укажите ведомость и категорию работ")
		}
		if body.TotalArea < 0 {
			return jsonError(e, http.StatusBadRequest, "Площадь не может быть отрицательной")
		}

		if _, err := app.FindRecordById("estimates", body.Estimate); err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}
		if _, err := app.FindRecordById("work_categories", body.WorkCategory); err != nil {
			return jsonError(e, http.StatusNotFound, "Категория работ не существует")
		}

		duplicates, _ := app.FindRecordsByFilter(
			"estimate_sections",
			"estimate = {:e} && category = {:c}",
			"", 1, 0,
			map[string]any{"e": body.Estimate, "c": body.WorkCategory},
		)
		if len(duplicates) > 0 {
			return jsonError(e, http.StatusConflict, "Раздел для этой категории уже существует")
		}

		col, err := app.FindCollectionByNameOrId("estimate_sections")
		if err != nil {
			log.Printf("section_create: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось создать раздел")
		}

		record := core.NewRecord(col)
		record.Set("estimate", body.Estimate)
		record.Set("category", body.WorkCategory)
		record.Set("total_area", body.TotalArea)

		if err := app.Save(record); err != nil {
			log.Printf("section_create: save error: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось создать раздел")
		}

		return e.JSON(http.StatusCreated, sectionToResponse(record))
	}
}

// HandleSectionUpdate changes a section's total area and reruns the
// volume math for everything underneath it.
func HandleSectionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sectionID := e.Request.PathValue("id")
		if sectionID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор раздела")
		}

		record, err := app.FindRecordById("estimate_sections", sectionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Раздел не существует")
		}

		var body struct {
			TotalArea float64 `json:"total_area"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}
		if body.TotalArea < 0 {
			return jsonError(e, http.StatusBadRequest, "Площадь не может быть отрицательной")
		}

		record.Set("total_area", body.TotalArea)
		if err := app.Save(record); err != nil {
			log.Printf("section_update: save error for %s: %v", sectionID, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сохранить раздел")
		}

		if err := recalcSectionVolumes(app, sectionID); err != nil {
			log.Printf("section_update: recalc error for %s: %v", sectionID, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось пересчитать объемы")
		}

		return e.JSON(http.StatusOK, sectionToResponse(record))
	}
}

// HandleSectionDelete removes a section; its work types, items and
// resources cascade.
func HandleSectionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sectionID := e.Request.PathValue("id")
		if sectionID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор раздела")
		}

		record, err := app.FindRecordById("estimate_sections", sectionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Раздел не существует")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("section_delete: error deleting %s: %v", sectionID, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось удалить раздел")
		}

		return e.NoContent(http.StatusNoContent)
	}
}
