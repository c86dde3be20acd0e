package collections_test

import (
	"testing"

	"vedomost/collections"
	"vedomost/testhelpers"
)

func TestSeed_CreatesCatalog(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	categoriesCol, _ := app.FindCollectionByNameOrId("work_categories")
	categories, err := app.FindAllRecords(categoriesCol)
	if err != nil {
		t.Fatalf("query work_categories error: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}

	names := make(map[string]bool)
	for _, c := range categories {
		names[c.GetString("name")] = true
	}
	for _, want := range []string{"Полы", "Кровля", "Стены"} {
		if !names[want] {
			t.Errorf("missing seeded category %q", want)
		}
	}

	workTypesCol, _ := app.FindCollectionByNameOrId("work_types")
	workTypes, _ := app.FindAllRecords(workTypesCol)
	if len(workTypes) != 7 {
		t.Errorf("expected 7 work types, got %d", len(workTypes))
	}

	worksCol, _ := app.FindCollectionByNameOrId("works")
	works, _ := app.FindAllRecords(worksCol)
	if len(works) == 0 {
		t.Error("expected works to be created")
	}

	resourcesCol, _ := app.FindCollectionByNameOrId("resources")
	resources, _ := app.FindAllRecords(resourcesCol)
	if len(resources) == 0 {
		t.Error("expected resources to be created")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	categoriesCol, _ := app.FindCollectionByNameOrId("work_categories")
	categories, _ := app.FindAllRecords(categoriesCol)
	if len(categories) != 3 {
		t.Errorf("expected 3 categories after idempotent seed, got %d", len(categories))
	}
}

func TestSeed_SharedWorksDeduplicated(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	// "Устройство стяжки" appears in both linoleum templates but must be
	// stored as a single catalog work.
	worksCol, _ := app.FindCollectionByNameOrId("works")
	works, _ := app.FindRecordsByFilter(
		worksCol,
		"name = {:n}",
		"", 0, 0,
		map[string]any{"n": "Устройство стяжки"},
	)
	if len(works) != 1 {
		t.Fatalf("expected 1 shared work record, got %d", len(works))
	}

	// Both templates must link to it.
	linksCol, _ := app.FindCollectionByNameOrId("work_type_works")
	links, _ := app.FindRecordsByFilter(
		linksCol,
		"work = {:id}",
		"", 0, 0,
		map[string]any{"id": works[0].Id},
	)
	if len(links) != 2 {
		t.Errorf("expected 2 template links for shared work, got %d", len(links))
	}
}

func TestSeed_TemplateDetails(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	worksCol, _ := app.FindCollectionByNameOrId("works")
	works, _ := app.FindRecordsByFilter(
		worksCol,
		"name = {:n}",
		"", 1, 0,
		map[string]any{"n": "Устройство песчаного слоя"},
	)
	if len(works) == 0 {
		t.Fatal("sand layer work not found")
	}
	if works[0].GetString("unit") != "м³" {
		t.Errorf("unit = %q, want %q", works[0].GetString("unit"), "м³")
	}

	linksCol, _ := app.FindCollectionByNameOrId("work_type_works")
	links, _ := app.FindRecordsByFilter(
		linksCol,
		"work = {:id}",
		"", 1, 0,
		map[string]any{"id": works[0].Id},
	)
	if len(links) == 0 {
		t.Fatal("sand layer template link not found")
	}
	if got := links[0].GetFloat("work_volume_per_unit"); got != 0.1 {
		t.Errorf("work_volume_per_unit = %v, want 0.1", got)
	}
	if got := links[0].GetInt("order_index"); got != 2 {
		t.Errorf("order_index = %v, want 2", got)
	}

	resLinksCol, _ := app.FindCollectionByNameOrId("work_resources")
	resLinks, _ := app.FindRecordsByFilter(
		resLinksCol,
		"work = {:id}",
		"", 0, 0,
		map[string]any{"id": works[0].Id},
	)
	if len(resLinks) != 1 {
		t.Fatalf("expected 1 resource link for sand layer, got %d", len(resLinks))
	}
	if got := resLinks[0].GetFloat("quantity_per_unit"); got != 1.05 {
		t.Errorf("quantity_per_unit = %v, want 1.05", got)
	}
}

func TestSeed_ZeroVolumeWorksAllowed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	// Demolition works carry a zero coefficient: their volume comes from
	// the external estimate calculation, not from the area.
	worksCol, _ := app.FindCollectionByNameOrId("works")
	works, _ := app.FindRecordsByFilter(
		worksCol,
		"name = {:n}",
		"", 1, 0,
		map[string]any{"n": "Демонтаж старого покрытия"},
	)
	if len(works) == 0 {
		t.Fatal("demolition work not found")
	}

	linksCol, _ := app.FindCollectionByNameOrId("work_type_works")
	links, _ := app.FindRecordsByFilter(
		linksCol,
		"work = {:id}",
		"", 1, 0,
		map[string]any{"id": works[0].Id},
	)
	if len(links) == 0 {
		t.Fatal("demolition template link not found")
	}
	if got := links[0].GetFloat("work_volume_per_unit"); got != 0 {
		t.Errorf("work_volume_per_unit = %v, want 0", got)
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Create a category first (not via Seed)
	testhelpers.CreateTestCategory(t, app, "Фасады")

	// Seed should skip because catalog data already exists
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	categoriesCol, _ := app.FindCollectionByNameOrId("work_categories")
	categories, _ := app.FindAllRecords(categoriesCol)
	if len(categories) != 1 {
		t.Errorf("expected 1 category (pre-existing only), got %d", len(categories))
	}
	if categories[0].GetString("name") != "Фасады" {
		t.Errorf("expected pre-existing category, got %q", categories[0].GetString("name"))
	}
}
