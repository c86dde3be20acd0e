// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestEstimate creates an estimate record with the given name and returns it.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		t.Fatalf("failed to find estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("object_name", "Тестовый объект")
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// CreateTestCategory creates a work category record and returns it.
func CreateTestCategory(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_categories")
	if err != nil {
		t.Fatalf("failed to find work_categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test category: %v", err)
	}

	return record
}

// CreateTestWorkType creates a work type record under a category and returns it.
func CreateTestWorkType(t *testing.T, app *pocketbase.PocketBase, categoryID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_types")
	if err != nil {
		t.Fatalf("failed to find work_types collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("category", categoryID)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work type: %v", err)
	}

	return record
}

// CreateTestWork creates a catalog work record and returns it.
func CreateTestWork(t *testing.T, app *pocketbase.PocketBase, name, unit string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		t.Fatalf("failed to find works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("unit", unit)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work: %v", err)
	}

	return record
}

// CreateTestResource creates a catalog resource record and returns it.
func CreateTestResource(t *testing.T, app *pocketbase.PocketBase, name, unit string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("resources")
	if err != nil {
		t.Fatalf("failed to find resources collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("unit", unit)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test resource: %v", err)
	}

	return record
}

// LinkTestWork attaches a work to a work type template with the given
// order and volume-per-unit coefficient.
func LinkTestWork(t *testing.T, app *pocketbase.PocketBase, workTypeID, workID string, orderIndex int, volumePerUnit float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_type_works")
	if err != nil {
		t.Fatalf("failed to find work_type_works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work_type", workTypeID)
	record.Set("work", workID)
	record.Set("order_index", orderIndex)
	record.Set("work_volume_per_unit", volumePerUnit)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work link: %v", err)
	}

	return record
}

// LinkTestResource attaches a resource to a work within a work type template.
func LinkTestResource(t *testing.T, app *pocketbase.PocketBase, workTypeID, workID, resourceID string, quantityPerUnit float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_resources")
	if err != nil {
		t.Fatalf("failed to find work_resources collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work_type", workTypeID)
	record.Set("work", workID)
	record.Set("resource", resourceID)
	record.Set("quantity_per_unit", quantityPerUnit)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test resource link: %v", err)
	}

	return record
}

// CreateTestSection creates an estimate section for a category with the given area.
func CreateTestSection(t *testing.T, app *pocketbase.PocketBase, estimateID, categoryID string, totalArea float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimate_sections")
	if err != nil {
		t.Fatalf("failed to find estimate_sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("category", categoryID)
	record.Set("total_area", totalArea)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section: %v", err)
	}

	return record
}

// CreateTestSectionWorkType creates a section work type row with the given percentage.
func CreateTestSectionWorkType(t *testing.T, app *pocketbase.PocketBase, sectionID, workTypeID string, percentage float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("section_work_types")
	if err != nil {
		t.Fatalf("failed to find section_work_types collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("section", sectionID)
	record.Set("work_type", workTypeID)
	record.Set("percentage", percentage)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section work type: %v", err)
	}

	return record
}
