package collections_test

import (
	"testing"

	"vedomost/collections"
	"vedomost/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"work_categories",
	"work_types",
	"works",
	"resources",
	"work_type_works",
	"work_resources",
	"estimates",
	"estimate_sections",
	"section_work_types",
	"estimate_items",
	"item_resources",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_EstimatesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimates")

	fields := []string{"name", "object_name", "status", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("estimates: missing field %q", f)
		}
	}

	// Verify status is a select field with expected values
	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := map[string]bool{"draft": true, "active": true, "completed": true, "archived": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing status value: %q", v)
		}
	} else {
		t.Errorf("status field is not a SelectField")
	}
}

func TestSetup_EstimateSectionsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimate_sections")

	fields := []string{"estimate", "category", "total_area"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("estimate_sections: missing field %q", f)
		}
	}

	// estimate relation with cascade delete
	estimateField := col.Fields.GetByName("estimate")
	if rf, ok := estimateField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("estimate_sections.estimate: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("estimate_sections.estimate: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Errorf("estimate_sections.estimate is not a RelationField")
	}

	// category is a catalog reference, deleting a category must not cascade
	categoryField := col.Fields.GetByName("category")
	if rf, ok := categoryField.(*core.RelationField); ok {
		if rf.CascadeDelete {
			t.Error("estimate_sections.category: expected CascadeDelete=false")
		}
	}
}

func TestSetup_SectionWorkTypesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("section_work_types")

	fields := []string{"section", "work_type", "percentage"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("section_work_types: missing field %q", f)
		}
	}

	// percentage constrained to [0, 100]
	percentField := col.Fields.GetByName("percentage")
	if nf, ok := percentField.(*core.NumberField); ok {
		if nf.Min == nil || *nf.Min != 0 {
			t.Error("section_work_types.percentage: expected Min=0")
		}
		if nf.Max == nil || *nf.Max != 100 {
			t.Error("section_work_types.percentage: expected Max=100")
		}
	} else {
		t.Errorf("percentage field is not a NumberField")
	}

	sectionField := col.Fields.GetByName("section")
	if rf, ok := sectionField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("section_work_types.section: expected CascadeDelete=true")
		}
	}
}

func TestSetup_EstimateItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimate_items")

	fields := []string{"section_work_type", "work", "order_index", "volume"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("estimate_items: missing field %q", f)
		}
	}

	parentField := col.Fields.GetByName("section_work_type")
	if rf, ok := parentField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("estimate_items.section_work_type: expected CascadeDelete=true")
		}
	}
}

func TestSetup_ItemResourcesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("item_resources")

	fields := []string{"item", "resource", "quantity", "note"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("item_resources: missing field %q", f)
		}
	}

	itemField := col.Fields.GetByName("item")
	if rf, ok := itemField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("item_resources.item: expected CascadeDelete=true")
		}
	}
}

func TestSetup_CatalogTemplateFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	linkCol, _ := app.FindCollectionByNameOrId("work_type_works")
	for _, f := range []string{"work_type", "work", "order_index", "work_volume_per_unit"} {
		if linkCol.Fields.GetByName(f) == nil {
			t.Errorf("work_type_works: missing field %q", f)
		}
	}

	resCol, _ := app.FindCollectionByNameOrId("work_resources")
	for _, f := range []string{"work_type", "work", "resource", "quantity_per_unit"} {
		if resCol.Fields.GetByName(f) == nil {
			t.Errorf("work_resources: missing field %q", f)
		}
	}
}
