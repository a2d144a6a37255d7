package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart = "failed to add recipe to shopping list"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping list"

	ErrRecipeNotFound            = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess  = errors.New("unauthorized access to recipe")
	ErrAlreadyFavorited          = errors.New("recipe is already in favorites")
	ErrNotFavorited              = errors.New("recipe is not in favorites")
	ErrAlreadyInShoppingCart     = errors.New("recipe is already in shopping list")
	ErrNotInShoppingCart         = errors.New("recipe is not in shopping list")
	ErrRecipeImageRequired       = errors.New("recipe image is required")
	ErrInvalidImageFormat        = errors.New("invalid image format")
	ErrRecipeIngredientMissing   = errors.New("ingredient referenced by recipe does not exist")
	ErrRecipeTagMissing          = errors.New("tag referenced by recipe does not exist")
	ErrRecipeIngredientsRequired = errors.New("recipe needs at least one ingredient")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1,max=32767"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=32767"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest is a partial update: nil slices and zero values keep
	// the stored value, non-nil slices replace the whole set.
	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"omitempty,max=200"`
		Text        string                    `json:"text" validate:"omitempty"`
		Image       string                    `json:"image" validate:"omitempty"`
		CookingTime int                       `json:"cooking_time" validate:"omitempty,min=1,max=32767"`
		Tags        []string                  `json:"tags" validate:"omitempty,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		PaginationRequest
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string                     `json:"id"`
		Tags             []Tag                      `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      *bool                      `json:"is_favorited,omitempty"`
		IsInShoppingCart *bool                      `json:"is_in_shopping_cart,omitempty"`
		Name             string                     `json:"name"`
		ImageURL         string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}
)
