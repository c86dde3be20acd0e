package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type estimateSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ObjectName    string `json:"object_name"`
	Status        string `json:"status"`
	Created       string `json:"created"`
	Updated       string `json:"updated"`
	SectionsCount int    `json:"sections_count"`
}

// HandleEstimateList returns all estimates, newest first, each with the
// number of sections it has.
func HandleEstimateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimatesCol, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			log.Printf("estimate_list: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомости")
		}

		records, err := app.FindRecordsByFilter(estimatesCol, "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("estimate_list: query error: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось загрузить ведомости")
		}

		results := make([]estimateSummary, 0, len(records))
		for _, r := range records {
			sections, err := app.FindRecordsByFilter(
				"estimate_sections",
				"estimate = {:id}",
				"", 0, 0,
				map[string]any{"id": r.Id},
			)
			if err != nil {
				sections = nil
			}

			results = append(results, estimateSummary{
				ID:            r.Id,
				Name:          r.GetString("name"),
				ObjectName:    r.GetString("object_name"),
				Status:        r.GetString("status"),
				Created:       r.GetDateTime("created").String(),
				Updated:       r.GetDateTime("updated").String(),
				SectionsCount: len(sections),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"count":   len(results),
			"results": results,
		})
	}
}
