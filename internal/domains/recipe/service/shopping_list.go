package service

import (
	"bytes"
	"context"
	"fmt"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/metrics"
)

// ShoppingListFilename is the attachment name of the downloaded list.
const ShoppingListFilename = "shoplist.txt"

func (s *recipeService) ShoppingList(ctx context.Context, v viewer.Viewer) ([]model.ShoppingItem, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	lines, err := s.repo.CartLines(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	items := AggregateShoppingList(lines)
	metrics.ShoppingListItems.Observe(float64(len(items)))
	return items, nil
}

// AggregateShoppingList groups lines by ingredient name and sums their amounts.
// Items keep first-encounter order and the first unit seen for each name.
func AggregateShoppingList(lines []model.CartLine) []model.ShoppingItem {
	items := make([]model.ShoppingItem, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.Name]; ok {
			items[i].Amount = items[i].Amount.Add(l.Amount)
			continue
		}
		index[l.Name] = len(items)
		items = append(items, model.ShoppingItem{
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}
	return items
}

// RenderShoppingList writes one "{name} - {amount} {unit}" line per item.
func RenderShoppingList(items []model.ShoppingItem) []byte {
	var buf bytes.Buffer
	for _, it := range items {
		fmt.Fprintf(&buf, "%s - %s %s\n", it.Name, utils.FormatAmount(it.Amount), it.MeasurementUnit)
	}
	return buf.Bytes()
}
