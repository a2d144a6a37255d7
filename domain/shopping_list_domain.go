package domain

import "errors"

const (
	ShoppingListTitle = "Shopping list"

	ExportFormatPDF  = "pdf"
	ExportFormatPNG  = "png"
	ExportFormatText = "txt"
)

var (
	MessageSuccessGetShoppingList    = "success get shopping list"
	MessageFailedGetShoppingList     = "failed to get shopping list"
	MessageFailedExportShoppingList  = "failed to export shopping list"
	MessageFailedUnsupportedExporter = "unsupported export format"

	ErrUnsupportedExportFormat  = errors.New("unsupported export format")
	ErrShoppingListUnavailable  = errors.New("shopping list store unavailable")
	ErrOrphanedIngredient       = errors.New("shopping list row references a missing ingredient")
	ErrRecipeOutsideCart        = errors.New("shopping list row references a recipe outside the cart")
	ErrInvalidShoppingListInput = errors.New("shopping list row has a non-positive amount")
)

type (
	// ShoppingListLine is one consolidated ingredient: the total amount of
	// (Name, MeasurementUnit) needed across every recipe in the cart.
	ShoppingListLine struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	ShoppingListResponse struct {
		Items   []ShoppingListLine `json:"items"`
		Recipes int                `json:"recipes"`
	}
)
