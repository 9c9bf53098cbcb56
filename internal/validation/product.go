// Package validation checks submitted forms before anything is written.
package validation

import (
	"math"
	"strconv"
	"strings"

	"inventory/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxPrice is the largest accepted price. Prices have at most 15 significant
// digits so SQLite, which keeps decimal columns as REAL, stores them exactly.
var MaxPrice = decimal.RequireFromString("9999999999999.99")

// MaxQuantity is the largest accepted quantity.
const MaxQuantity = math.MaxInt32

// ProductForm is a product as submitted by the create and edit forms. Values
// are kept as raw strings so an invalid submission can be shown back
// unchanged.
type ProductForm struct {
	ID       string `json:"id" form:"id"`
	Name     string `json:"name" form:"name" validate:"required"`
	Price    string `json:"price" form:"price" validate:"required,price"`
	Quantity string `json:"quantity" form:"quantity" validate:"omitempty,quantity"`
	Category string `json:"category" form:"category" validate:"required"`
}

// FormFromProduct builds the form that edits an existing product.
func FormFromProduct(p *models.Product) ProductForm {
	return ProductForm{
		ID:       strconv.FormatUint(uint64(p.ID), 10),
		Name:     p.Name,
		Price:    p.Price.StringFixed(2),
		Quantity: strconv.Itoa(p.Quantity),
		Category: p.Category,
	}
}

// FieldError is a validation failure on a single form field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors lists the failed fields in form order.
type FieldErrors []FieldError

// Map indexes the messages by field name for templates.
func (e FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, fe := range e {
		m[fe.Field] = fe.Message
	}
	return m
}

// Validator validates submitted forms.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the product rules registered.
func New() *Validator {
	v := validator.New()
	// Both registrations only fail on an empty tag name or nil func.
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, ok := parsePrice(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		_, ok := parseQuantity(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// Engine exposes the underlying validator for other request types.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Product validates the trimmed values of form and converts them into a
// product. When any rule fails it returns nil and the field errors. form is
// never modified, so it can be shown back exactly as submitted. The product
// id is left to the caller.
func (v *Validator) Product(form *ProductForm) (*models.Product, FieldErrors) {
	trimmed := ProductForm{
		ID:       form.ID,
		Name:     strings.TrimSpace(form.Name),
		Price:    strings.TrimSpace(form.Price),
		Quantity: strings.TrimSpace(form.Quantity),
		Category: strings.TrimSpace(form.Category),
	}

	if err := v.validate.Struct(trimmed); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, FieldErrors{{Field: "", Message: err.Error()}}
		}
		fieldErrors := make(FieldErrors, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, FieldError{Field: e.Field(), Message: message(e)})
		}
		return nil, fieldErrors
	}

	price, _ := parsePrice(trimmed.Price)
	quantity := 0
	if trimmed.Quantity != "" {
		quantity, _ = parseQuantity(trimmed.Quantity)
	}
	return &models.Product{
		Name:     trimmed.Name,
		Price:    price,
		Quantity: quantity,
		Category: trimmed.Category,
	}, nil
}

// ParseID parses a product id from a route parameter or form field. Ids
// start at 1.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func message(e validator.FieldError) string {
	switch e.Field() {
	case "Price":
		if e.Tag() == "required" {
			return "This field required"
		}
		return "Price must be a number between 0 and " + MaxPrice.String() + " with at most two decimal places."
	case "Quantity":
		return "Quantity must be a whole number between 0 and " + strconv.Itoa(MaxQuantity) + "."
	default:
		return "The " + e.Field() + " field is required."
	}
}

func parsePrice(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.IsNegative() || d.GreaterThan(MaxPrice) || !d.Equal(d.Round(2)) {
		return decimal.Zero, false
	}
	return d, true
}

func parseQuantity(s string) (int, bool) {
	q, err := strconv.Atoi(s)
	if err != nil || q < 0 || q > MaxQuantity {
		return 0, false
	}
	return q, true
}
