package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logger"
	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewShoppingListService(NewShoppingListRepository(db), logger.Nop())

	cook := testutil.CreateUser(t, db, "cook")
	chef := testutil.CreateUser(t, db, "chef")
	sugarG := testutil.CreateIngredient(t, db, "sugar", "g")
	sugarTsp := testutil.CreateIngredient(t, db, "sugar", "tsp")
	flour := testutil.CreateIngredient(t, db, "flour", "g")

	cake := testutil.CreateRecipe(t, db, chef, "Cake", nil,
		testutil.RecipeLine{Ingredient: sugarG, Amount: 200},
		testutil.RecipeLine{Ingredient: flour, Amount: 500},
	)
	cookies := testutil.CreateRecipe(t, db, chef, "Cookies", nil,
		testutil.RecipeLine{Ingredient: sugarG, Amount: 100},
	)
	tea := testutil.CreateRecipe(t, db, chef, "Tea", nil,
		testutil.RecipeLine{Ingredient: sugarTsp, Amount: 2},
	)

	t.Run("empty cart", func(t *testing.T) {
		res, err := svc.GetShoppingList(ctx, cook.ID.String())
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Equal(t, 0, res.Recipes)
	})

	for _, r := range []entities.Recipe{cake, cookies, tea} {
		_, err := svc.AddToCart(ctx, cook.ID.String(), r.ID.String())
		require.NoError(t, err)
	}

	_, err := svc.AddToCart(ctx, cook.ID.String(), cake.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyInShoppingCart)

	first, err := svc.GetShoppingList(ctx, cook.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Recipes)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "sugar", MeasurementUnit: "g", Amount: 300},
		{Name: "sugar", MeasurementUnit: "tsp", Amount: 2},
	}, first.Items)

	second, err := svc.GetShoppingList(ctx, cook.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := svc.GetShoppingList(ctx, chef.ID.String())
	require.NoError(t, err)
	assert.Empty(t, other.Items, "carts are per user")

	require.NoError(t, svc.RemoveFromCart(ctx, cook.ID.String(), cake.ID.String()))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, cook.ID.String(), cake.ID.String()), domain.ErrNotInShoppingCart)

	after, err := svc.GetShoppingList(ctx, cook.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "sugar", MeasurementUnit: "g", Amount: 100},
		{Name: "sugar", MeasurementUnit: "tsp", Amount: 2},
	}, after.Items)

	doc, err := svc.Export(ctx, cook.ID.String(), domain.ExportFormatText)
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.txt", doc.FileName)
	assert.Equal(t, "Shopping list\n\nsugar (g) — 100\nsugar (tsp) — 2\n", string(doc.Content))

	_, err = svc.Export(ctx, cook.ID.String(), "xls")
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)

	_, err = svc.AddToCart(ctx, cook.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

type stubRepository struct {
	ShoppingListRepository
	cart    []uuid.UUID
	rows    []IngredientRow
	cartErr error
}

func (s stubRepository) GetCartRecipeIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return s.cart, s.cartErr
}

func (s stubRepository) GetRecipeIngredients(context.Context, []uuid.UUID) ([]IngredientRow, error) {
	return s.rows, nil
}

func TestShoppingListServicePropagatesFailures(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	down := NewShoppingListService(stubRepository{cartErr: errors.New("connection refused")}, logger.Nop())
	_, err := down.GetShoppingList(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrShoppingListUnavailable)

	recipe := uuid.New()
	orphan := NewShoppingListService(stubRepository{
		cart: []uuid.UUID{recipe},
		rows: []IngredientRow{{RecipeID: recipe, IngredientID: uuid.New(), Amount: 1}},
	}, logger.Nop())
	_, err = orphan.Export(ctx, userID, domain.ExportFormatPDF)
	assert.ErrorIs(t, err, domain.ErrOrphanedIngredient)
}
