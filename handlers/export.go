package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

// buildExportData assembles everything the Excel and PDF builders need:
// the estimate header plus, per section with area > 0, the flattened
// table rows. Work types with a zero percentage are filtered out before
// flattening.
func buildExportData(app *pocketbase.PocketBase, estimateID string) (services.ExportData, error) {
	record, err := app.FindRecordById("estimates", estimateID)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("estimate not found: %w", err)
	}

	sections, err := buildSectionDetails(app, estimateID)
	if err != nil {
		return services.ExportData{}, err
	}

	exportSections := make([]services.ExportSection, 0, len(sections))
	for _, section := range sections {
		if section.TotalArea <= 0 {
			continue
		}

		nodes := make([]services.WorkTypeNode, 0, len(section.WorkTypes))
		for _, wt := range section.WorkTypes {
			if wt.Percentage <= 0 {
				continue
			}

			items := make([]services.ItemNode, 0, len(wt.Items))
			for _, item := range wt.Items {
				resources := make([]services.ResourceNode, 0, len(item.Resources))
				for _, r := range item.Resources {
					resources = append(resources, services.ResourceNode{
						Name:     r.Name,
						Unit:     r.Unit,
						Quantity: r.Quantity,
					})
				}
				items = append(items, services.ItemNode{
					WorkName:  item.Name,
					WorkUnit:  item.Unit,
					Volume:    item.Volume,
					Resources: resources,
				})
			}
			nodes = append(nodes, services.WorkTypeNode{Name: wt.Name, Items: items})
		}

		exportSections = append(exportSections, services.ExportSection{
			CategoryName: section.CategoryName,
			TotalArea:    section.TotalArea,
			Rows:         services.FlattenWorkTypes(nodes),
		})
	}

	createdDate := "—"
	if dt := record.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02.01.2006")
	}

	return services.ExportData{
		Name:        record.GetString("name"),
		ObjectName:  record.GetString("object_name"),
		Status:      record.GetString("status"),
		CreatedDate: createdDate,
		Sections:    exportSections,
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleEstimateExportExcel generates and downloads the estimate as an
// Excel workbook.
func HandleEstimateExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		data, err := buildExportData(app, estimateID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сформировать файл")
		}

		filename := fmt.Sprintf("VOR_%s_%d.xlsx", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleEstimateExportPDF generates and downloads the estimate as a PDF.
func HandleEstimateExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return jsonError(e, http.StatusBadRequest, "Не указан идентификатор ведомости")
		}

		data, err := buildExportData(app, estimateID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return jsonError(e, http.StatusNotFound, "Ведомость не существует")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Не удалось сформировать файл")
		}

		filename := fmt.Sprintf("VOR_%s_%d.pdf", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
