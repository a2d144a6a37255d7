package ingredient

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id string) (domain.Ingredient, error)
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func toIngredient(i entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.SearchIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, err
	}

	res := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, toIngredient(i))
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.Ingredient, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}

	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, domain.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return toIngredient(ingredient), nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.Ingredient, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.MeasurementUnit)

	exists, err := s.ingredientRepository.CheckIngredientExists(ctx, name, unit)
	if err != nil {
		return domain.Ingredient{}, err
	}
	if exists {
		return domain.Ingredient{}, domain.ErrIngredientExists
	}

	ingredient := entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.ingredientRepository.CreateIngredient(ctx, &ingredient); err != nil {
		return domain.Ingredient{}, err
	}
	return toIngredient(ingredient), nil
}
