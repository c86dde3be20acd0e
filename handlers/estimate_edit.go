package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleEstimateUpdate replaces the mutable header fields of an estimate.
func HandleEstimateUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		record, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		var body struct {
			Name       string `json:"name"`
			ObjectName string `json:"object_name"`
			Status     string `json:"status"`
		}
		if err := decodeBody(e, &body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Некорректное тело запроса")
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			return jsonError(e, http.StatusBadRequest, "Укажите название ведомости")
		}

		status := strings.TrimSpace(body.Status)
		validStatus := false
		for _, s := range EstimateStatusOptions {
			if status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			return jsonError(e, http.StatusBadRequest, "Недопустимый статус")
		}

		record.Set("name", name)
		record.Set("object_name", strings.TrimSpace(body.ObjectName))
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("estimate_edit: save error for %s: %v", estimateID, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сохранить ведомость")
		}

		return e.JSON(http.StatusOK, estimateSummary{
			ID:         record.Id,
			Name:       record.GetString("name"),
			ObjectName: record.GetString("object_name"),
			Status:     record.GetString("status"),
			Created:    record.GetDateTime("created").String(),
			Updated:    record.GetDateTime("updated").String(),
		})
	}
}

// HandleEstimateDelete removes an estimate; sections, work types, items
// and resources go with it through cascade deletes.
func HandleEstimateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		record, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("estimate_delete: error deleting %s: %v", estimateID, err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось удалить ведомость")
		}

		return e.NoContent(http.StatusNoContent)
	}
}
