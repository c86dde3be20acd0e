package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// catalogFixture holds the ids of a minimal seeded catalog: one category
// with two work types, the first work type templated with two works (one
// of them carrying a resource) and a zero-coefficient demolition work.
type catalogFixture struct {
	CategoryID   string
	WorkTypeID   string
	WorkType2ID  string
	ScreedWorkID string
	DemoWorkID   string
	ResourceID   string
}

func seedSmallCatalog(t *testing.T, app *pocketbase.PocketBase) catalogFixture {
	t.Helper()

	category := testhelpers.CreateTestCategory(t, app, "Полы")
	workType := testhelpers.CreateTestWorkType(t, app, category.Id, "Линолеум")
	workType2 := testhelpers.CreateTestWorkType(t, app, category.Id, "Плитка")

	demo := testhelpers.CreateTestWork(t, app, "Демонтаж покрытия", "м²")
	screed := testhelpers.CreateTestWork(t, app, "Устройство стяжки", "м³")
	mix := testhelpers.CreateTestResource(t, app, "Сухая смесь", "кг")

	testhelpers.LinkTestWork(t, app, workType.Id, demo.Id, 1, 0)
	testhelpers.LinkTestWork(t, app, workType.Id, screed.Id, 2, 0.05)
	testhelpers.LinkTestResource(t, app, workType.Id, screed.Id, mix.Id, 1800)

	return catalogFixture{
		CategoryID:   category.Id,
		WorkTypeID:   workType.Id,
		WorkType2ID:  workType2.Id,
		ScreedWorkID: screed.Id,
		DemoWorkID:   demo.Id,
		ResourceID:   mix.Id,
	}
}
