package ingredient

import (
	"context"
	"strings"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	IngredientRepository interface {
		SearchIngredients(ctx context.Context, namePrefix string) ([]entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uuid.UUID) (entities.Ingredient, error)
		CountIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
		CheckIngredientExists(ctx context.Context, name, unit string) (bool, error)
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		// UpsertIngredients inserts the rows that are not present yet and
		// reports how many were inserted.
		UpsertIngredients(ctx context.Context, ingredients []entities.Ingredient) (int64, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ingredientRepository) SearchIngredients(ctx context.Context, namePrefix string) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	query := r.db.WithContext(ctx).Order("name asc").Order("measurement_unit asc")
	if namePrefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, strings.ToLower(escapeLike(namePrefix))+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return entities.Ingredient{}, err
	}
	return ingredient, nil
}

func (r *ingredientRepository) CountIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ingredientRepository) CheckIngredientExists(ctx context.Context, name, unit string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) UpsertIngredients(ctx context.Context, ingredients []entities.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(&ingredients, 500)
	return res.RowsAffected, res.Error
}
