package shoppinglist

import (
	"testing"

	"foodgram/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(recipe uuid.UUID, name, unit string, amount int) IngredientRow {
	return IngredientRow{
		RecipeID:        recipe,
		IngredientID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+"|"+unit)),
		Name:            name,
		MeasurementUnit: unit,
		Amount:          amount,
	}
}

func TestConsolidateSumsSameIngredientAcrossRecipes(t *testing.T) {
	cake, cookies := uuid.New(), uuid.New()

	lines, err := Consolidate([]uuid.UUID{cake, cookies}, []IngredientRow{
		row(cake, "sugar", "g", 200),
		row(cookies, "sugar", "g", 100),
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{{Name: "sugar", MeasurementUnit: "g", Amount: 300}}, lines)
}

func TestConsolidateKeepsUnitsApart(t *testing.T) {
	cake, tea := uuid.New(), uuid.New()

	lines, err := Consolidate([]uuid.UUID{cake, tea}, []IngredientRow{
		row(cake, "sugar", "g", 200),
		row(tea, "sugar", "tsp", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "sugar", MeasurementUnit: "g", Amount: 200},
		{Name: "sugar", MeasurementUnit: "tsp", Amount: 2},
	}, lines)
}

func TestConsolidateEmptyCart(t *testing.T) {
	lines, err := Consolidate(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestConsolidateSingleRecipePassthrough(t *testing.T) {
	soup := uuid.New()
	rows := []IngredientRow{
		row(soup, "water", "ml", 1000),
		row(soup, "beet", "pcs", 2),
		row(soup, "Cabbage", "g", 300),
	}

	lines, err := Consolidate([]uuid.UUID{soup}, rows)
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "beet", MeasurementUnit: "pcs", Amount: 2},
		{Name: "Cabbage", MeasurementUnit: "g", Amount: 300},
		{Name: "water", MeasurementUnit: "ml", Amount: 1000},
	}, lines)
}

func TestConsolidateIsDeterministic(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []IngredientRow{
		row(a, "salt", "g", 5),
		row(b, "Salt", "g", 1),
		row(a, "egg", "pcs", 2),
		row(b, "salt", "pinch", 1),
		row(b, "egg", "pcs", 3),
	}
	reversed := make([]IngredientRow, len(rows))
	for i := range rows {
		reversed[len(rows)-1-i] = rows[i]
	}

	first, err := Consolidate([]uuid.UUID{a, b}, rows)
	require.NoError(t, err)
	second, err := Consolidate([]uuid.UUID{b, a}, reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "egg", MeasurementUnit: "pcs", Amount: 5},
		{Name: "Salt", MeasurementUnit: "g", Amount: 1},
		{Name: "salt", MeasurementUnit: "g", Amount: 5},
		{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
	}, first)
}

func TestConsolidateRejectsIntegrityViolations(t *testing.T) {
	cart := uuid.New()

	_, err := Consolidate([]uuid.UUID{cart}, []IngredientRow{row(cart, "", "", 3)})
	assert.ErrorIs(t, err, domain.ErrOrphanedIngredient)

	_, err = Consolidate([]uuid.UUID{cart}, []IngredientRow{row(uuid.New(), "flour", "g", 3)})
	assert.ErrorIs(t, err, domain.ErrRecipeOutsideCart)

	_, err = Consolidate([]uuid.UUID{cart}, []IngredientRow{row(cart, "flour", "g", 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidShoppingListInput)
}
