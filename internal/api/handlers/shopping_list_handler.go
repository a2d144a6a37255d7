package handlers

import (
	"errors"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/shoppinglist"

	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingListHandler interface {
		GetShoppingList(c *fiber.Ctx) error
		DownloadShoppingList(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
	}

	shoppingListHandler struct {
		shoppingListService shoppinglist.ShoppingListService
	}
)

func NewShoppingListHandler(shoppingListService shoppinglist.ShoppingListService) ShoppingListHandler {
	return &shoppingListHandler{shoppingListService: shoppingListService}
}

func (h *shoppingListHandler) GetShoppingList(c *fiber.Ctx) error {
	res, err := h.shoppingListService.GetShoppingList(c.UserContext(), middleware.ViewerFromCtx(c).UserID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetShoppingList, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}

func (h *shoppingListHandler) DownloadShoppingList(c *fiber.Ctx) error {
	doc, err := h.shoppingListService.Export(c.UserContext(), middleware.ViewerFromCtx(c).UserID, c.Query("format", domain.ExportFormatPDF))
	if err != nil {
		message := domain.MessageFailedExportShoppingList
		if errors.Is(err, domain.ErrUnsupportedExportFormat) {
			message = domain.MessageFailedUnsupportedExporter
		}
		return presenters.ErrorResponse(c, errorStatus(err), message, err)
	}

	c.Attachment(doc.FileName)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Status(fiber.StatusOK).Send(doc.Content)
}

func (h *shoppingListHandler) AddToCart(c *fiber.Ctx) error {
	res, err := h.shoppingListService.AddToCart(c.UserContext(), middleware.ViewerFromCtx(c).UserID, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddShoppingCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *shoppingListHandler) RemoveFromCart(c *fiber.Ctx) error {
	if err := h.shoppingListService.RemoveFromCart(c.UserContext(), middleware.ViewerFromCtx(c).UserID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveFromCart, err)
	}
	return presenters.NoContent(c)
}
