package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Email string   `json:"email" validate:"required,email"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

func TestStructValid(t *testing.T) {
	price := 1.5
	assert.Nil(t, Struct(payload{Name: "Ann", Email: "ann@x.com", Price: &price}))
	assert.Nil(t, Struct(payload{Name: "Ann", Email: "ann@x.com"}))
}

func TestStructFieldErrors(t *testing.T) {
	price := -1.0
	errs := Struct(payload{Name: "Annabelle", Email: "nope", Price: &price})

	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Error: "must not exceed 5 characters"},
		{Field: "email", Error: "must be a valid email address"},
		{Field: "price", Error: "must be greater than or equal to 0"},
	}, errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(payload{})
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Error: "is required"},
		{Field: "email", Error: "is required"},
	}, errs)
}
