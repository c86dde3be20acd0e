package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

var EstimateStatusOptions = []string{"draft", "active", "completed", "archived"}

// HandleEstimateCreate creates a new estimate from a JSON body.
func HandleEstimateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
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
			status = "draft"
		}

		col, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			log.Printf("estimate_create: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось создать ведомость")
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("object_name", strings.TrimSpace(body.ObjectName))
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("estimate_create: save error: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось создать ведомость")
		}

		return e.JSON(http.StatusCreated, estimateSummary{
			ID:         record.Id,
			Name:       record.GetString("name"),
			ObjectName: record.GetString("object_name"),
			Status:     record.GetString("status"),
			Created:    record.GetDateTime("created").String(),
			Updated:    record.GetDateTime("updated").String(),
		})
	}
}
