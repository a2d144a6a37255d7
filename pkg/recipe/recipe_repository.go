package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateFavorite is returned by AddFavorite when the pair already exists.
var ErrDuplicateFavorite = errors.New("favorite already exists")

type (
	// RecipeChanges carries a partial update. Nil Tags or Ingredients keep
	// the stored sets, non-nil ones replace them.
	RecipeChanges struct {
		Columns     map[string]any
		Tags        []*entities.Tag
		Ingredients []entities.RecipeIngredient
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipeID uuid.UUID, changes RecipeChanges) error
		DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
		GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uuid.UUID) ([]entities.Recipe, int64, error)

		AddFavorite(ctx context.Context, favorite *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
		IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		GetFavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name asc")
		}).
		Preload("Ingredients.Ingredient")
}

// addIngredients merges lines into the recipe: an ingredient that is already
// present gets its amount increased instead of a second row.
func addIngredients(tx *gorm.DB, recipeID uuid.UUID, lines []entities.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].RecipeID = recipeID
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount": gorm.Expr("recipe_ingredients.amount + excluded.amount"),
		}),
	}).Create(&lines).Error
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return addIngredients(tx, recipe.ID, ingredients)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, changes RecipeChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := entities.Recipe{ID: recipeID}

		if len(changes.Columns) > 0 {
			if err := tx.Model(&recipe).Updates(changes.Columns).Error; err != nil {
				return err
			}
		}

		if changes.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Replace(changes.Tags); err != nil {
				return err
			}
		}

		if changes.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := addIngredients(tx, recipeID, changes.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRecipe removes the recipe and every row that references it.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.ShoppingCartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", recipeID).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (entities.Recipe, error) {
	var recipe entities.Recipe
	if err := preloadRecipe(r.db.WithContext(ctx)).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		return entities.Recipe{}, err
	}
	return recipe, nil
}

// applyFilter builds a fresh filtered query; Count and Find must not share a
// statement.
func (r *recipeRepository) applyFilter(ctx context.Context, filter domain.RecipeFilter, viewerID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.Tags) > 0 {
		query = query.Where("recipes.id IN (?)", r.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags))
	}
	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if viewerID != uuid.Nil {
		if filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", r.db.
				Model(&entities.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", viewerID))
		}
		if filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", r.db.
				Model(&entities.ShoppingCartItem{}).
				Select("recipe_id").
				Where("user_id = ?", viewerID))
		}
	}
	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uuid.UUID) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64

	if err := r.applyFilter(ctx, filter, viewerID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := preloadRecipe(r.applyFilter(ctx, filter, viewerID)).
		Order("recipes.created_at desc").
		Order("recipes.id asc").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, favorite *entities.Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFavorite
		}
		return err
	}
	return nil
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) GetFavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	favorited := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return favorited, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}
	return favorited, nil
}
