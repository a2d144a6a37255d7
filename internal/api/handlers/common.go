package handlers

import (
	"errors"
	"strconv"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors to HTTP status codes. Anything unknown is
// reported as 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrNotFavorited),
		errors.Is(err, domain.ErrNotInShoppingCart):
		return fiber.StatusNotFound

	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenRevoked):
		return fiber.StatusUnauthorized

	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrSelfSubscription),
		errors.Is(err, domain.ErrAlreadySubscribed),
		errors.Is(err, domain.ErrNotSubscribed),
		errors.Is(err, domain.ErrResetTokenInvalid),
		errors.Is(err, domain.ErrAlreadyFavorited),
		errors.Is(err, domain.ErrAlreadyInShoppingCart),
		errors.Is(err, domain.ErrRecipeImageRequired),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrRecipeIngredientMissing),
		errors.Is(err, domain.ErrRecipeTagMissing),
		errors.Is(err, domain.ErrRecipeIngredientsRequired),
		errors.Is(err, domain.ErrTagSlugExists),
		errors.Is(err, domain.ErrIngredientExists),
		errors.Is(err, domain.ErrUnsupportedExportFormat):
		return fiber.StatusBadRequest

	case errors.Is(err, domain.ErrShoppingListUnavailable),
		errors.Is(err, domain.ErrMailDeliveryDisabled):
		return fiber.StatusServiceUnavailable

	default:
		return fiber.StatusInternalServerError
	}
}

func parsePagination(c *fiber.Ctx) domain.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}
	if limit > 100 {
		limit = 100
	}
	return domain.PaginationRequest{Page: page, Limit: limit}
}

// recipesLimit reads ?recipes_limit=; a missing or invalid value means all.
func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return -1
	}
	return limit
}

func paginated(results any, pagination domain.Pagination) fiber.Map {
	return fiber.Map{
		"results":    results,
		"pagination": pagination,
	}
}

// queryFlag reads a boolean filter. "1", "true" and the other strconv.ParseBool
// spellings enable it; anything else leaves it off.
func queryFlag(c *fiber.Ctx, key string) bool {
	enabled, err := strconv.ParseBool(c.Query(key))
	return err == nil && enabled
}
