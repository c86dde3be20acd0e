package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type sectionWorkTypeResponse struct {
	ID         string  `json:"id"`
	Section    string  `json:"section"`
	WorkType   string  `json:"work_type"`
	Percentage float64 `json:"percentage"`
}

func sectionWorkTypeToResponse(r *core.Record) sectionWorkTypeResponse {
	return sectionWorkTypeResponse{
		ID:         r.Id,
		Section:    r.GetString("section"),
		WorkType:   r.GetString("work_type"),
		Percentage: r.GetFloat("percentage"),
	}
}

// HandleSectionWorkTypeCreate attaches a work type to a section and
// generates its estimate items from the catalog template.
func HandleSectionWorkTypeCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Section    string  `json:"section"`
			WorkType   string  `json:"work_type"`
			Percentage float64 `json:"percentage"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}
		if body.Section == "" || body.WorkType == "" {
			return jsonError(e, http.StatusBadRequest, "Укажите раздел и вид работ")
		}
		if body.Percentage < 0 || body.Percentage > 100 {
			return jsonError(e, http.StatusBadRequest, "Процент должен быть от 0 до 100")
		}

		section, err := app.FindRecordById("estimate_sections", body.Section)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Раздел не существует")
		}
		workType, err := app.FindRecordById("work_types", body.WorkType)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Вид работ не существует")
		}

		// The work type must belong to the section's category.
		if workType.GetString("category") != section.GetString("category") {
			return jsonError(e, http.StatusBadRequest, "Вид работ не относится к категории раздела")
		}

		duplicates, _ := app.FindRecordsByFilter(
			"section_work_types",
			"section = {:s} && work_type = {:wt}",
			"", 1, 0,
			map[string]any{"s": body.Section, "wt": body.WorkType},
		)
		if len(duplicates) > 0 {
			return jsonError(e, http.StatusConflict, "Вид работ уже добавлен в раздел")
		}

		col, err := app.FindCollectionByNameOrId("section_work_types")
		if err != nil {
			log.Printf("section_work_type_create: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось добавить вид работ")
		}

		record := core.NewRecord(col)
		record.Set("section", body.Section)
		record.Set("work_type", body.WorkType)
		record.Set("percentage", body.Percentage)

		if err := app.Save(record); err != nil {
			log.Printf("section_work_type_create: save error: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось добавить вид работ")
		}

		if err := syncItemsFromTemplate(app, record.Id); err != nil {
			log.Printf("section_work_type_create: template sync error: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сформировать позиции")
		}

		return e.JSON(http.StatusCreated, sectionWorkTypeToResponse(record))
	}
}

// HandleSectionWorkTypeUpdate changes the percentage and recalculates
// item volumes in place.
func HandleSectionWorkTypeUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор вида работ")
		}

		record, err := app.FindRecordById("section_work_types", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Вид работ не существует")
		}

		var body struct {
			Percentage float64 `json:"percentage"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}
		if body.Percentage < 0 || body.Percentage > 100 {
			return jsonError(e, http.StatusBadRequest, "Процент должен быть от 0 до 100")
		}

		record.Set("percentage", body.Percentage)
		if err := app.Save(record); err != nil {
			log.Printf("section_work_type_update: save error for %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сохранить вид работ")
		}

		if err := recalcWorkTypeVolumes(app, id); err != nil {
			log.Printf("section_work_type_update: recalc error for %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось пересчитать объемы")
		}

		return e.JSON(http.StatusOK, sectionWorkTypeToResponse(record))
	}
}

// HandleSectionWorkTypeDelete removes a work type from a section; its
// items and their resources cascade.
func HandleSectionWorkTypeDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор вида работ")
		}

		record, err := app.FindRecordById("section_work_types", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Вид работ не существует")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("section_work_type_delete: error deleting %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось удалить вид работ")
		}

		return e.NoContent(http.StatusNoContent)
	}
}
