package shoppinglist

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Document is a rendered shopping list ready to be sent as an attachment.
	Document struct {
		Content     []byte
		ContentType string
		FileName    string
	}

	ShoppingListService interface {
		GetShoppingList(ctx context.Context, userID string) (domain.ShoppingListResponse, error)
		Export(ctx context.Context, userID string, format string) (Document, error)
		AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShort, error)
		RemoveFromCart(ctx context.Context, userID, recipeID string) error
	}

	shoppingListService struct {
		repository ShoppingListRepository
		log        *logger.Logger
	}
)

func NewShoppingListService(repository ShoppingListRepository, log *logger.Logger) ShoppingListService {
	return &shoppingListService{
		repository: repository,
		log:        log.With("service", "shopping_list"),
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrShoppingListUnavailable, err)
}

func (s *shoppingListService) consolidate(ctx context.Context, userID string) ([]domain.ShoppingListLine, int, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrUnauthorized
	}

	recipeIDs, err := s.repository.GetCartRecipeIDs(ctx, uid)
	if err != nil {
		return nil, 0, unavailable(err)
	}
	if len(recipeIDs) == 0 {
		return []domain.ShoppingListLine{}, 0, nil
	}

	rows, err := s.repository.GetRecipeIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, 0, unavailable(err)
	}

	lines, err := Consolidate(recipeIDs, rows)
	if err != nil {
		s.log.Error("shopping list integrity violation", "user_id", userID, "error", err)
		return nil, 0, err
	}
	return lines, len(recipeIDs), nil
}

func (s *shoppingListService) GetShoppingList(ctx context.Context, userID string) (domain.ShoppingListResponse, error) {
	lines, recipes, err := s.consolidate(ctx, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return domain.ShoppingListResponse{Items: lines, Recipes: recipes}, nil
}

func (s *shoppingListService) Export(ctx context.Context, userID string, format string) (Document, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return Document{}, err
	}

	lines, _, err := s.consolidate(ctx, userID)
	if err != nil {
		return Document{}, err
	}

	content, err := exporter.Render(domain.ShoppingListTitle, lines)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Content:     content,
		ContentType: exporter.ContentType(),
		FileName:    exporter.FileName(),
	}, nil
}

func (s *shoppingListService) AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShort, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShort{}, domain.ErrUnauthorized
	}
	rid, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.RecipeShort{}, domain.ErrRecipeNotFound
	}

	recipe, err := s.repository.GetRecipe(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShort{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShort{}, err
	}

	exists, err := s.repository.IsInCart(ctx, uid, rid)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if exists {
		return domain.RecipeShort{}, domain.ErrAlreadyInShoppingCart
	}

	if err := s.repository.AddToCart(ctx, &entities.ShoppingCartItem{UserID: uid, RecipeID: rid}); err != nil {
		if errors.Is(err, ErrDuplicateCartItem) {
			return domain.RecipeShort{}, domain.ErrAlreadyInShoppingCart
		}
		return domain.RecipeShort{}, err
	}

	return domain.RecipeShort{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *shoppingListService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrUnauthorized
	}
	rid, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrRecipeNotFound
	}

	if _, err := s.repository.GetRecipe(ctx, rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	deleted, err := s.repository.RemoveFromCart(ctx, uid, rid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotInShoppingCart
	}
	return nil
}
