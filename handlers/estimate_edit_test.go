package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vedomost/testhelpers"
)

func TestHandleEstimateUpdate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	estimate := testhelpers.CreateTestEstimate(t, app, "Старое имя")

	handler := HandleEstimateUpdate(app)
	req := newJSONRequest(http.MethodPut, "/api/estimates/"+estimate.Id,
		`{"name": "Новое имя", "object_name": "Объект", "status": "completed"}`)
	req.SetPathValue("id", estimate.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body estimateSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Name != "Новое имя" || body.Status != "completed" {
		t.Errorf("got name=%q status=%q", body.Name, body.Status)
	}

	record, _ := app.FindRecordById("estimates", estimate.Id)
	if record.GetString("name") != "Новое имя" {
		t.Errorf("persisted name = %q", record.GetString("name"))
	}
}

func TestHandleEstimateUpdate_InvalidStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	estimate := testhelpers.CreateTestEstimate(t, app, "ВОР")

	handler := HandleEstimateUpdate(app)
	req := newJSONRequest(http.MethodPut, "/api/estimates/"+estimate.Id,
		`{"name": "ВОР", "status": "bogus"}`)
	req.SetPathValue("id", estimate.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleEstimateUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleEstimateUpdate(app)
	req := newJSONRequest(http.MethodPut, "/api/estimates/nope", `{"name": "x", "status": "draft"}`)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleEstimateDelete_CascadesSections(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fixture := seedSmallCatalog(t, app)
	estimate := testhelpers.CreateTestEstimate(t, app, "Удаляемая")
	section := testhelpers.CreateTestSection(t, app, estimate.Id, fixture.CategoryID, 100)
	swt := testhelpers.CreateTestSectionWorkType(t, app, section.Id, fixture.WorkTypeID, 40)

	handler := HandleEstimateDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/estimates/"+estimate.Id, nil)
	req.SetPathValue("id", estimate.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("estimates", estimate.Id); err == nil {
		t.Error("expected estimate to be deleted")
	}
	if _, err := app.FindRecordById("estimate_sections", section.Id); err == nil {
		t.Error("expected section to be cascade deleted")
	}
	if _, err := app.FindRecordById("section_work_types", swt.Id); err == nil {
		t.Error("expected section work type to be cascade deleted")
	}
}

func TestHandleEstimateDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleEstimateDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/estimates/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
