package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type resourceDef struct {
	name            string
	unit            string
	quantityPerUnit float64
}

type workDef struct {
	name          string
	unit          string
	orderIndex    int
	volumePerUnit float64 // 0 means the volume comes from the external estimate calculation
	resources     []resourceDef
}

type workTypeDef struct {
	name  string
	works []workDef
}

type categoryDef struct {
	name      string
	workTypes []workTypeDef
}

// referenceCatalog is the seed catalog: categories, their work types and
// the per-type work/resource templates item generation draws from.
var referenceCatalog = []categoryDef{
	{
		name: "Полы",
		workTypes: []workTypeDef{
			{
				name: "Линолеум спортивный",
				works: []workDef{
					{
						name: "Демонтаж старого покрытия", unit: "м²", orderIndex: 1, volumePerUnit: 0,
					},
					{
						name: "Устройство песчаного слоя", unit: "м³", orderIndex: 2, volumePerUnit: 0.1,
						resources: []resourceDef{
							{name: "Песок", unit: "м³", quantityPerUnit: 1.05},
						},
					},
					{
						name: "Устройство ПЭ пленки", unit: "м²", orderIndex: 3, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "ПЭ пленка", unit: "м²", quantityPerUnit: 1.15},
						},
					},
					{
						name: "Устройство стяжки", unit: "м³", orderIndex: 4, volumePerUnit: 0.05,
						resources: []resourceDef{
							{name: "Сухая смесь", unit: "кг", quantityPerUnit: 1800},
							{name: "Фиброволокно", unit: "кг", quantityPerUnit: 0.9},
						},
					},
					{
						name: "Укладка линолеума", unit: "м²", orderIndex: 5, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Линолеум спортивный", unit: "м²", quantityPerUnit: 1.1},
							{name: "Клей для линолеума", unit: "кг", quantityPerUnit: 0.4},
						},
					},
				},
			},
			{
				name: "Линолеум коммерческий",
				works: []workDef{
					{
						name: "Устройство стяжки", unit: "м³", orderIndex: 1, volumePerUnit: 0.05,
						resources: []resourceDef{
							{name: "Сухая смесь", unit: "кг", quantityPerUnit: 1800},
						},
					},
					{
						name: "Укладка линолеума", unit: "м²", orderIndex: 2, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Линолеум коммерческий", unit: "м²", quantityPerUnit: 1.1},
							{name: "Клей для линолеума", unit: "кг", quantityPerUnit: 0.4},
						},
					},
				},
			},
			{
				name: "Плитка керамогранит",
				works: []workDef{
					{
						name: "Огрунтовка основания", unit: "м²", orderIndex: 1, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Грунтовка", unit: "л", quantityPerUnit: 0.2},
						},
					},
					{
						name: "Укладка плитки керамогранит", unit: "м²", orderIndex: 2, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Плитка керамогранит", unit: "м²", quantityPerUnit: 1.05},
							{name: "Клей плиточный", unit: "кг", quantityPerUnit: 5},
							{name: "Затирка", unit: "кг", quantityPerUnit: 0.4},
						},
					},
				},
			},
		},
	},
	{
		name: "Кровля",
		workTypes: []workTypeDef{
			{
				name: "Кровля рулонная",
				works: []workDef{
					{
						name: "Демонтаж кровельного ковра", unit: "м²", orderIndex: 1, volumePerUnit: 0,
					},
					{
						name: "Огрунтовка основания праймером", unit: "м²", orderIndex: 2, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Праймер битумный", unit: "л", quantityPerUnit: 0.35},
						},
					},
					{
						name: "Наплавление рулонного материала", unit: "м²", orderIndex: 3, volumePerUnit: 2,
						resources: []resourceDef{
							{name: "Рулонный материал", unit: "м²", quantityPerUnit: 1.15},
						},
					},
				},
			},
			{
				name: "Кровля металлическая",
				works: []workDef{
					{
						name: "Монтаж обрешетки", unit: "м²", orderIndex: 1, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Брусок обрешетки", unit: "м³", quantityPerUnit: 0.01},
						},
					},
					{
						name: "Монтаж металлочерепицы", unit: "м²", orderIndex: 2, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Металлочерепица", unit: "м²", quantityPerUnit: 1.1},
							{name: "Саморезы кровельные", unit: "шт", quantityPerUnit: 8},
						},
					},
				},
			},
		},
	},
	{
		name: "Стены",
		workTypes: []workTypeDef{
			{
				name: "Окраска водоэмульсионная",
				works: []workDef{
					{
						name: "Шпатлевка стен", unit: "м²", orderIndex: 1, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Шпатлевка", unit: "кг", quantityPerUnit: 1.2},
						},
					},
					{
						name: "Окраска стен", unit: "м²", orderIndex: 2, volumePerUnit: 2,
						resources: []resourceDef{
							{name: "Краска водоэмульсионная", unit: "кг", quantityPerUnit: 0.25},
						},
					},
				},
			},
			{
				name: "Плитка керамическая",
				works: []workDef{
					{
						name: "Облицовка стен плиткой", unit: "м²", orderIndex: 1, volumePerUnit: 1,
						resources: []resourceDef{
							{name: "Плитка керамическая", unit: "м²", quantityPerUnit: 1.05},
							{name: "Клей плиточный", unit: "кг", quantityPerUnit: 4},
							{name: "Затирка", unit: "кг", quantityPerUnit: 0.3},
						},
					},
				},
			},
		},
	},
}

// Seed loads the reference catalog on first start. It is a no-op when
// work categories already exist, so restarts never duplicate entries.
func Seed(app *pocketbase.PocketBase) error {
	categoriesCol, err := app.FindCollectionByNameOrId("work_categories")
	if err != nil {
		return fmt.Errorf("find work_categories: %w", err)
	}

	existing, err := app.CountRecords(categoriesCol)
	if err != nil {
		return fmt.Errorf("count work_categories: %w", err)
	}
	if existing > 0 {
		return nil
	}

	workTypesCol, err := app.FindCollectionByNameOrId("work_types")
	if err != nil {
		return fmt.Errorf("find work_types: %w", err)
	}
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("find works: %w", err)
	}
	resourcesCol, err := app.FindCollectionByNameOrId("resources")
	if err != nil {
		return fmt.Errorf("find resources: %w", err)
	}
	workTypeWorksCol, err := app.FindCollectionByNameOrId("work_type_works")
	if err != nil {
		return fmt.Errorf("find work_type_works: %w", err)
	}
	workResourcesCol, err := app.FindCollectionByNameOrId("work_resources")
	if err != nil {
		return fmt.Errorf("find work_resources: %w", err)
	}

	// Works and resources are shared across work types; dedupe by name.
	workIDs := make(map[string]string)
	resourceIDs := make(map[string]string)

	for _, category := range referenceCatalog {
		categoryRecord := core.NewRecord(categoriesCol)
		categoryRecord.Set("name", category.name)
		if err := app.Save(categoryRecord); err != nil {
			return fmt.Errorf("seed category %q: %w", category.name, err)
		}

		for _, workType := range category.workTypes {
			workTypeRecord := core.NewRecord(workTypesCol)
			workTypeRecord.Set("category", categoryRecord.Id)
			workTypeRecord.Set("name", workType.name)
			if err := app.Save(workTypeRecord); err != nil {
				return fmt.Errorf("seed work type %q: %w", workType.name, err)
			}

			for _, work := range workType.works {
				workID, ok := workIDs[work.name]
				if !ok {
					workRecord := core.NewRecord(worksCol)
					workRecord.Set("name", work.name)
					workRecord.Set("unit", work.unit)
					if err := app.Save(workRecord); err != nil {
						return fmt.Errorf("seed work %q: %w", work.name, err)
					}
					workID = workRecord.Id
					workIDs[work.name] = workID
				}

				linkRecord := core.NewRecord(workTypeWorksCol)
				linkRecord.Set("work_type", workTypeRecord.Id)
				linkRecord.Set("work", workID)
				linkRecord.Set("order_index", work.orderIndex)
				linkRecord.Set("work_volume_per_unit", work.volumePerUnit)
				if err := app.Save(linkRecord); err != nil {
					return fmt.Errorf("seed work link %q/%q: %w", workType.name, work.name, err)
				}

				for _, resource := range work.resources {
					resourceID, ok := resourceIDs[resource.name]
					if !ok {
						resourceRecord := core.NewRecord(resourcesCol)
						resourceRecord.Set("name", resource.name)
						resourceRecord.Set("unit", resource.unit)
						if err := app.Save(resourceRecord); err != nil {
							return fmt.Errorf("seed resource %q: %w", resource.name, err)
						}
						resourceID = resourceRecord.Id
						resourceIDs[resource.name] = resourceID
					}

					resourceLink := core.NewRecord(workResourcesCol)
					resourceLink.Set("work_type", workTypeRecord.Id)
					resourceLink.Set("work", workID)
					resourceLink.Set("resource", resourceID)
					resourceLink.Set("quantity_per_unit", resource.quantityPerUnit)
					if err := app.Save(resourceLink); err != nil {
						return fmt.Errorf("seed resource link %q/%q: %w", work.name, resource.name, err)
					}
				}
			}
		}
	}

	return nil
}
