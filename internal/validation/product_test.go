package validation_test

import (
	"testing"

	"inventory/internal/models"
	"inventory/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Product_Valid(t *testing.T) {
	v := validation.New()

	form := &validation.ProductForm{Name: " Widget ", Price: "9.99", Quantity: "5", Category: "Tools"}
	product, errs := v.Product(form)

	require.Empty(t, errs)
	require.NotNil(t, product)
	assert.Equal(t, "Widget", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 5, product.Quantity)
	assert.Equal(t, "Tools", product.Category)
	assert.Zero(t, product.ID)
}

func TestValidator_Product_QuantityDefaultsToZero(t *testing.T) {
	v := validation.New()

	product, errs := v.Product(&validation.ProductForm{Name: "Widget", Price: "0", Category: "Tools"})

	require.Empty(t, errs)
	assert.Equal(t, 0, product.Quantity)
	assert.True(t, product.Price.IsZero())
}

func TestValidator_Product_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		form   validation.ProductForm
		fields []string
	}{
		{"missing name", validation.ProductForm{Price: "1", Category: "Tools"}, []string{"Name"}},
		{"blank name", validation.ProductForm{Name: "   ", Price: "1", Category: "Tools"}, []string{"Name"}},
		{"missing category", validation.ProductForm{Name: "Widget", Price: "1"}, []string{"Category"}},
		{"missing price", validation.ProductForm{Name: "Widget", Category: "Tools"}, []string{"Price"}},
		{"negative price", validation.ProductForm{Name: "Widget", Price: "-0.01", Category: "Tools"}, []string{"Price"}},
		{"non-numeric price", validation.ProductForm{Name: "Widget", Price: "abc", Category: "Tools"}, []string{"Price"}},
		{"price too precise", validation.ProductForm{Name: "Widget", Price: "1.005", Category: "Tools"}, []string{"Price"}},
		{"price too large", validation.ProductForm{Name: "Widget", Price: "10000000000000", Category: "Tools"}, []string{"Price"}},
		{"price beyond exact storage", validation.ProductForm{Name: "Widget", Price: "9999999999999999.99", Category: "Tools"}, []string{"Price"}},
		{"negative quantity", validation.ProductForm{Name: "Widget", Price: "1", Quantity: "-1", Category: "Tools"}, []string{"Quantity"}},
		{"fractional quantity", validation.ProductForm{Name: "Widget", Price: "1", Quantity: "1.5", Category: "Tools"}, []string{"Quantity"}},
		{"quantity too large", validation.ProductForm{Name: "Widget", Price: "1", Quantity: "2147483648", Category: "Tools"}, []string{"Quantity"}},
		{"everything missing", validation.ProductForm{}, []string{"Name", "Price", "Category"}},
	}

	v := validation.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			product, errs := v.Product(&form)

			assert.Nil(t, product)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidator_Product_Messages(t *testing.T) {
	v := validation.New()

	_, errs := v.Product(&validation.ProductForm{Quantity: "x"})
	messages := errs.Map()

	assert.Equal(t, "The Name field is required.", messages["Name"])
	assert.Equal(t, "This field required", messages["Price"])
	assert.Equal(t, "The Category field is required.", messages["Category"])
	assert.Contains(t, messages["Quantity"], "whole number")
}

func TestValidator_Product_KeepsSubmittedValues(t *testing.T) {
	v := validation.New()

	form := &validation.ProductForm{Name: "Widget", Price: "abc", Quantity: "-3", Category: "Tools"}
	_, errs := v.Product(form)

	require.Len(t, errs, 2)
	assert.Equal(t, "abc", form.Price)
	assert.Equal(t, "-3", form.Quantity)
}

func TestValidator_Product_AcceptsMaxPrice(t *testing.T) {
	v := validation.New()

	product, errs := v.Product(&validation.ProductForm{Name: "Widget", Price: "9999999999999.99", Category: "Tools"})

	require.Empty(t, errs)
	assert.True(t, product.Price.Equal(validation.MaxPrice))
}

func TestValidator_Product_DoesNotTrimSubmittedForm(t *testing.T) {
	v := validation.New()

	form := &validation.ProductForm{Name: "  ", Price: " abc ", Quantity: " 7 ", Category: " Tools "}
	_, errs := v.Product(form)

	require.Len(t, errs, 2)
	assert.Equal(t, validation.ProductForm{Name: "  ", Price: " abc ", Quantity: " 7 ", Category: " Tools "}, *form)

	valid := &validation.ProductForm{Name: " Widget ", Price: " 1.50 ", Quantity: " 7 ", Category: " Tools "}
	product, errs := v.Product(valid)
	require.Empty(t, errs)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 7, product.Quantity)
	assert.Equal(t, " Widget ", valid.Name)
}

func TestFormFromProduct(t *testing.T) {
	form := validation.FormFromProduct(&models.Product{
		ID: 7, Name: "Widget", Price: decimal.RequireFromString("9.9"), Quantity: 3, Category: "Tools",
	})

	assert.Equal(t, validation.ProductForm{ID: "7", Name: "Widget", Price: "9.90", Quantity: "3", Category: "Tools"}, form)
}

func TestParseID(t *testing.T) {
	id, ok := validation.ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := validation.ParseID(s)
		assert.False(t, ok, s)
	}
}
