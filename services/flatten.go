package services

import (
	"fmt"
	"strconv"
)

// QuantityPending is rendered in place of a zero quantity: zero marks a
// volume that is determined by the external estimate calculation rather
// than stored here, and must never show up as "0.00".
const QuantityPending = "По сметному расчету"

// ResourceNote is the fixed remark printed on every resource row.
const ResourceNote = "Норма расхода уточнить по смете"

// RowKind distinguishes the three row shapes of the flattened table.
type RowKind int

const (
	RowWorkTypeHeader RowKind = iota
	RowWork
	RowResource
)

// TableRow is one display row of the section table. The same rows feed
// the board response, the Excel sheet and the PDF, so the two renderings
// always agree.
type TableRow struct {
	Kind     RowKind `json:"kind"`
	Number   string  `json:"number"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity string  `json:"quantity"`
	Note     string  `json:"note"`
}

// ResourceNode is a material/labor line of an item.
type ResourceNode struct {
	Name     string
	Unit     string
	Quantity float64
}

// ItemNode is a work line with its resources.
type ItemNode struct {
	WorkName  string
	WorkUnit  string
	Volume    float64
	Resources []ResourceNode
}

// WorkTypeNode is a work type with its generated items, in order.
type WorkTypeNode struct {
	Name  string
	Items []ItemNode
}

// FormatQuantity renders a quantity with two decimals, or the pending
// text for the zero sentinel.
func FormatQuantity(quantity float64) string {
	if quantity == 0 {
		return QuantityPending
	}
	return fmt.Sprintf("%.2f", quantity)
}

// FlattenWorkTypes walks work types in order and emits the flat row
// sequence: a header row per work type, then its items numbered 1, 2,
// 3, ... (the counter runs through the whole slice, it does not reset at
// work-type boundaries), then each item's resources numbered
// "{item}.{i}" with an arrow prefix marking them subordinate. Callers
// pass only work types with percentage > 0.
func FlattenWorkTypes(workTypes []WorkTypeNode) []TableRow {
	var rows []TableRow
	workNumber := 1

	for _, workType := range workTypes {
		rows = append(rows, TableRow{
			Kind: RowWorkTypeHeader,
			Name: workType.Name,
		})

		for _, item := range workType.Items {
			rows = append(rows, TableRow{
				Kind:     RowWork,
				Number:   strconv.Itoa(workNumber),
				Name:     item.WorkName,
				Unit:     item.WorkUnit,
				Quantity: FormatQuantity(item.Volume),
			})

			for i, resource := range item.Resources {
				rows = append(rows, TableRow{
					Kind:     RowResource,
					Number:   fmt.Sprintf("%d.%d", workNumber, i+1),
					Name:     "→ " + resource.Name,
					Unit:     resource.Unit,
					Quantity: FormatQuantity(resource.Quantity),
					Note:     ResourceNote,
				})
			}

			workNumber++
		}
	}
	return rows
}
