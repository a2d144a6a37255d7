package shoppinglist

import (
	"fmt"
	"sort"
	"strings"

	"foodgram/domain"

	"github.com/google/uuid"
)

type lineKey struct {
	name string
	unit string
}

// Consolidate sums ingredient amounts over every recipe in the cart, grouped
// by (name, measurement unit). It has no side effects and the result order
// depends only on the input values.
//
// Rows pointing at a missing ingredient, at a recipe outside cartRecipeIDs or
// carrying an amount below 1 are integrity violations and abort the whole
// computation.
func Consolidate(cartRecipeIDs []uuid.UUID, rows []IngredientRow) ([]domain.ShoppingListLine, error) {
	lines := []domain.ShoppingListLine{}
	if len(cartRecipeIDs) == 0 {
		return lines, nil
	}

	inCart := make(map[uuid.UUID]struct{}, len(cartRecipeIDs))
	for _, id := range cartRecipeIDs {
		inCart[id] = struct{}{}
	}

	totals := make(map[lineKey]int, len(rows))
	for _, row := range rows {
		if _, ok := inCart[row.RecipeID]; !ok {
			return nil, fmt.Errorf("%w: recipe %s", domain.ErrRecipeOutsideCart, row.RecipeID)
		}
		if row.Name == "" {
			return nil, fmt.Errorf("%w: recipe %s ingredient %s", domain.ErrOrphanedIngredient, row.RecipeID, row.IngredientID)
		}
		if row.Amount < 1 {
			return nil, fmt.Errorf("%w: recipe %s ingredient %s amount %d", domain.ErrInvalidShoppingListInput, row.RecipeID, row.IngredientID, row.Amount)
		}
		totals[lineKey{name: row.Name, unit: row.MeasurementUnit}] += row.Amount
	}

	for key, amount := range totals {
		lines = append(lines, domain.ShoppingListLine{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Amount:          amount,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.MeasurementUnit < b.MeasurementUnit
	})
	return lines, nil
}
