package shoppinglist

import (
	"context"
	"errors"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// IngredientRow is one recipe_ingredients row joined with its
	// ingredient. Name and MeasurementUnit are empty when the ingredient
	// row is missing.
	IngredientRow struct {
		RecipeID        uuid.UUID
		IngredientID    uuid.UUID
		Name            string
		MeasurementUnit string
		Amount          int
	}

	ShoppingListRepository interface {
		GetCartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
		GetRecipeIngredients(ctx context.Context, recipeIDs []uuid.UUID) ([]IngredientRow, error)
		GetCartMembership(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetRecipe(ctx context.Context, recipeID uuid.UUID) (entities.Recipe, error)
		IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		AddToCart(ctx context.Context, item *entities.ShoppingCartItem) error
		RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

// ErrDuplicateCartItem is returned by AddToCart when the pair already exists.
var ErrDuplicateCartItem = errors.New("shopping cart item already exists")

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) GetCartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetRecipeIngredients fetches every ingredient line of the given recipes in
// a single query.
func (r *shoppingListRepository) GetRecipeIngredients(ctx context.Context, recipeIDs []uuid.UUID) ([]IngredientRow, error) {
	var rows []IngredientRow
	if len(recipeIDs) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, "+
			"COALESCE(ingredients.name, '') AS name, "+
			"COALESCE(ingredients.measurement_unit, '') AS measurement_unit, "+
			"recipe_ingredients.amount").
		Joins("LEFT JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *shoppingListRepository) GetCartMembership(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	inCart := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return inCart, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		inCart[id] = true
	}
	return inCart, nil
}

func (r *shoppingListRepository) GetRecipe(ctx context.Context, recipeID uuid.UUID) (entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		return entities.Recipe{}, err
	}
	return recipe, nil
}

func (r *shoppingListRepository) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *shoppingListRepository) AddToCart(ctx context.Context, item *entities.ShoppingCartItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCartItem
		}
		return err
	}
	return nil
}

func (r *shoppingListRepository) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCartItem{})
	return res.RowsAffected, res.Error
}
