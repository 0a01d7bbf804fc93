package shoppinglist

import (
	"shopmydish/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MergedItem is one (product, unit) line of a shopping list before it is
// stored.
type MergedItem struct {
	ProductID uuid.UUID
	UnitID    *uuid.UUID
	Quantity  decimal.Decimal
	// DishProductID is the first dish line that contributed to the item.
	DishProductID uuid.UUID
}

type mergeKey struct {
	product uuid.UUID
	unit    uuid.UUID // uuid.Nil when the line has no unit
}

// Aggregate merges dish lines that share both product and unit, summing
// their quantities exactly. A missing quantity counts as zero and lines
// with different units (or no unit) stay separate. Items come out in the
// order their key was first seen.
func Aggregate(lines []*entities.DishProduct) []MergedItem {
	index := make(map[mergeKey]int, len(lines))
	items := make([]MergedItem, 0, len(lines))

	for _, line := range lines {
		key := mergeKey{product: line.ProductID}
		if line.UnitID != nil {
			key.unit = *line.UnitID
		}

		qty := decimal.Zero
		if line.Quantity.Valid {
			qty = line.Quantity.Decimal
		}

		if i, ok := index[key]; ok {
			items[i].Quantity = items[i].Quantity.Add(qty)
			continue
		}

		var unitID *uuid.UUID
		if line.UnitID != nil {
			u := *line.UnitID
			unitID = &u
		}
		index[key] = len(items)
		items = append(items, MergedItem{
			ProductID:     line.ProductID,
			UnitID:        unitID,
			Quantity:      qty,
			DishProductID: line.ID,
		})
	}
	return items
}
