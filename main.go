package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/collections"
	"vedomost/handlers"
	"vedomost/services"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed the reference catalog on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: catalog seed failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		catalog := handlers.NewCatalogCache(app)
		committer := services.NewCommitter(handlers.NewStore(app))

		// ── Estimate CRUD ────────────────────────────────────────
		se.Router.GET("/api/estimates", handlers.HandleEstimateList(app))
		se.Router.POST("/api/estimates", handlers.HandleEstimateCreate(app))
		se.Router.GET("/api/estimates/{id}", handlers.HandleEstimateView(app))
		se.Router.PUT("/api/estimates/{id}", handlers.HandleEstimateUpdate(app))
		se.Router.DELETE("/api/estimates/{id}", handlers.HandleEstimateDelete(app))

		// ── Reference catalog ────────────────────────────────────
		se.Router.GET("/api/work-categories", handlers.HandleWorkCategoryList(catalog))
		se.Router.GET("/api/work-types", handlers.HandleWorkTypeList(catalog))

		// ── Reconciled board ─────────────────────────────────────
		se.Router.GET("/api/estimates/{id}/board", handlers.HandleEstimateBoard(app, catalog))

		// ── Sections ─────────────────────────────────────────────
		se.Router.POST("/api/estimate-sections", handlers.HandleSectionCreate(app))
		se.Router.PATCH("/api/estimate-sections/{id}", handlers.HandleSectionUpdate(app))
		se.Router.DELETE("/api/estimate-sections/{id}", handlers.HandleSectionDelete(app))

		// ── Section work types ───────────────────────────────────
		se.Router.POST("/api/section-work-types", handlers.HandleSectionWorkTypeCreate(app))
		se.Router.PATCH("/api/section-work-types/{id}", handlers.HandleSectionWorkTypeUpdate(app))
		se.Router.DELETE("/api/section-work-types/{id}", handlers.HandleSectionWorkTypeDelete(app))

		// ── Inline edit commits ──────────────────────────────────
		se.Router.POST("/api/estimates/{id}/sections/{categoryId}/area",
			handlers.HandleSectionAreaCommit(app, catalog, committer))
		se.Router.POST("/api/sections/{sectionId}/work-types/{workTypeId}/percentage",
			handlers.HandleWorkTypePercentCommit(app, catalog, committer))
		se.Router.POST("/api/estimates/{id}/sections/area",
			handlers.HandleBulkAreaApply(app, catalog, committer))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/api/estimates/{id}/export/excel", handlers.HandleEstimateExportExcel(app))
		se.Router.GET("/api/estimates/{id}/export/pdf", handlers.HandleEstimateExportPDF(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
