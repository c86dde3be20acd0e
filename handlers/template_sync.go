package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vedomost/services"
)

// syncItemsFromTemplate (re)generates the estimate items of one section
// work type from the catalog template: one item per template work in
// template order, one resource line per template resource. Existing
// items are dropped first; item resources go with them via cascade.
// volume = total_area × percentage/100 × work_volume_per_unit, and a
// zero coefficient deliberately yields a zero volume (the "по сметному
// расчету" case).
func syncItemsFromTemplate(app *pocketbase.PocketBase, sectionWorkTypeID string) error {
	swt, err := app.FindRecordById("section_work_types", sectionWorkTypeID)
	if err != nil {
		return fmt.Errorf("section work type not found: %w", err)
	}

	section, err := app.FindRecordById("estimate_sections", swt.GetString("section"))
	if err != nil {
		return fmt.Errorf("section not found: %w", err)
	}

	existing, err := app.FindRecordsByFilter(
		"estimate_items",
		"section_work_type = {:id}",
		"", 0, 0,
		map[string]any{"id": sectionWorkTypeID},
	)
	if err != nil {
		return fmt.Errorf("load existing items: %w", err)
	}
	for _, item := range existing {
		if err := app.Delete(item); err != nil {
			return fmt.Errorf("drop stale item %s: %w", item.Id, err)
		}
	}

	workTypeID := swt.GetString("work_type")
	links, err := app.FindRecordsByFilter(
		"work_type_works",
		"work_type = {:id}",
		"order_index", 0, 0,
		map[string]any{"id": workTypeID},
	)
	if err != nil {
		return fmt.Errorf("load template works: %w", err)
	}

	itemsCol, err := app.FindCollectionByNameOrId("estimate_items")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}
	resourcesCol, err := app.FindCollectionByNameOrId("item_resources")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}

	typeArea := services.CalcTypeArea(section.GetFloat("total_area"), swt.GetFloat("percentage"))

	for _, link := range links {
		volume := services.CalcItemVolume(typeArea, link.GetFloat("work_volume_per_unit"))

		item := core.NewRecord(itemsCol)
		item.Set("section_work_type", sectionWorkTypeID)
		item.Set("work", link.GetString("work"))
		item.Set("order_index", link.GetInt("order_index"))
		item.Set("volume", volume)
		if err := app.Save(item); err != nil {
			return fmt.Errorf("save item: %w", err)
		}

		resourceLinks, err := app.FindRecordsByFilter(
			"work_resources",
			"work_type = {:wt} && work = {:w}",
			"", 0, 0,
			map[string]any{"wt": workTypeID, "w": link.GetString("work")},
		)
		if err != nil {
			return fmt.Errorf("load template resources: %w", err)
		}

		for _, rl := range resourceLinks {
			resource := core.NewRecord(resourcesCol)
			resource.Set("item", item.Id)
			resource.Set("resource", rl.GetString("resource"))
			resource.Set("quantity", services.CalcResourceQuantity(volume, rl.GetFloat("quantity_per_unit")))
			resource.Set("note", services.ResourceNote)
			if err := app.Save(resource); err != nil {
				return fmt.Errorf("save item resource: %w", err)
			}
		}
	}

	return nil
}

// recalcWorkTypeVolumes rewrites item volumes and resource quantities of
// one section work type in place after an area or percentage change.
// Items keep their identity; only the numbers move.
func recalcWorkTypeVolumes(app *pocketbase.PocketBase, sectionWorkTypeID string) error {
	swt, err := app.FindRecordById("section_work_types", sectionWorkTypeID)
	if err != nil {
		return fmt.Errorf("section work type not found: %w", err)
	}

	section, err := app.FindRecordById("estimate_sections", swt.GetString("section"))
	if err != nil {
		return fmt.Errorf("section not found: %w", err)
	}

	typeArea := services.CalcTypeArea(section.GetFloat("total_area"), swt.GetFloat("percentage"))
	workTypeID := swt.GetString("work_type")

	items, err := app.FindRecordsByFilter(
		"estimate_items",
		"section_work_type = {:id}",
		"order_index", 0, 0,
		map[string]any{"id": sectionWorkTypeID},
	)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	for _, item := range items {
		coefficient := 0.0
		links, err := app.FindRecordsByFilter(
			"work_type_works",
			"work_type = {:wt} && work = {:w}",
			"", 1, 0,
			map[string]any{"wt": workTypeID, "w": item.GetString("work")},
		)
		if err == nil && len(links) > 0 {
			coefficient = links[0].GetFloat("work_volume_per_unit")
		}

		volume := services.CalcItemVolume(typeArea, coefficient)
		item.Set("volume", volume)
		if err := app.Save(item); err != nil {
			return fmt.Errorf("update item volume: %w", err)
		}

		resources, err := app.FindRecordsByFilter(
			"item_resources",
			"item = {:id}",
			"", 0, 0,
			map[string]any{"id": item.Id},
		)
		if err != nil {
			return fmt.Errorf("load item resources: %w", err)
		}
		for _, resource := range resources {
			perUnit := 0.0
			resourceLinks, err := app.FindRecordsByFilter(
				"work_resources",
				"work_type = {:wt} && work = {:w} && resource = {:r}",
				"", 1, 0,
				map[string]any{"wt": workTypeID, "w": item.GetString("work"), "r": resource.GetString("resource")},
			)
			if err == nil && len(resourceLinks) > 0 {
				perUnit = resourceLinks[0].GetFloat("quantity_per_unit")
			}
			resource.Set("quantity", services.CalcResourceQuantity(volume, perUnit))
			if err := app.Save(resource); err != nil {
				return fmt.Errorf("update item resource: %w", err)
			}
		}
	}

	return nil
}

// recalcSectionVolumes reruns the volume math for every work type of a
// section, after its total area changed.
func recalcSectionVolumes(app *pocketbase.PocketBase, sectionID string) error {
	workTypes, err := app.FindRecordsByFilter(
		"section_work_types",
		"section = {:id}",
		"", 0, 0,
		map[string]any{"id": sectionID},
	)
	if err != nil {
		return fmt.Errorf("load section work types: %w", err)
	}
	for _, swt := range workTypes {
		if err := recalcWorkTypeVolumes(app, swt.Id); err != nil {
			return err
		}
	}
	return nil
}
