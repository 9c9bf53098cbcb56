package handlers

import (
	"errors"
	"log/slog"

	"inventory/internal/services"
	"inventory/internal/validation"
	"inventory/internal/views"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests related to products.
type ProductHandler struct {
	service   *services.ProductService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validator *validation.Validator, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleIndex)
	productRoutes.Get("/create", h.HandleCreateForm)
	productRoutes.Post("/create", h.HandleCreate)
	productRoutes.Get("/edit/:id", h.HandleEditForm)
	productRoutes.Post("/edit", h.HandleEdit)
	productRoutes.Post("/delete/:id", h.HandleDelete)
}

// HandleIndex lists all products.
func (h *ProductHandler) HandleIndex(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("products/index", fiber.Map{
		"title":    "Products",
		"products": products,
	}, views.Layout)
}

// HandleCreateForm shows an empty create form.
func (h *ProductHandler) HandleCreateForm(c *fiber.Ctx) error {
	return h.renderForm(c, "products/create", validation.ProductForm{}, nil)
}

// HandleCreate validates the submitted form and stores a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var form validation.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	product, fieldErrors := h.validator.Product(&form)
	if fieldErrors != nil {
		return h.renderForm(c, "products/create", form, fieldErrors)
	}

	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return err
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// HandleEditForm shows the edit form filled with the stored product.
func (h *ProductHandler) HandleEditForm(c *fiber.Ctx) error {
	id, ok := validation.ParseID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	return h.renderForm(c, "products/edit", validation.FormFromProduct(product), nil)
}

// HandleEdit validates the submitted form and replaces the product it names.
func (h *ProductHandler) HandleEdit(c *fiber.Ctx) error {
	var form validation.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	id, ok := validation.ParseID(form.ID)
	if !ok {
		return fiber.ErrNotFound
	}

	product, fieldErrors := h.validator.Product(&form)
	if fieldErrors != nil {
		return h.renderForm(c, "products/edit", form, fieldErrors)
	}
	product.ID = id

	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// HandleDelete removes a product and reports the outcome as JSON.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := validation.ParseID(c.Params("id"))
	if !ok {
		return c.JSON(fiber.Map{"success": false, "message": "Product not found"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		h.logger.ErrorContext(c.UserContext(), "Error deleting product",
			slog.Uint64("product_id", uint64(id)),
			slog.String("error", err.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not delete product",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ProductHandler) renderForm(c *fiber.Ctx, view string, form validation.ProductForm, fieldErrors validation.FieldErrors) error {
	title := "Create Product"
	if view == "products/edit" {
		title = "Edit Product"
	}
	return c.Render(view, fiber.Map{
		"title":  title,
		"form":   form,
		"errors": fieldErrors.Map(),
	}, views.Layout)
}
