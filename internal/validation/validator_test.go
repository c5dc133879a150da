package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/ofertaapp/oferta-server/internal/errors"
)

type publishInput struct {
	ProductID  string `json:"product_id" validate:"required,uuid4"`
	CommerceID string `json:"commerce_id" validate:"required,uuid4"`
	ImageKey   string `json:"image_key" validate:"required"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(publishInput{
		ProductID:  "7b1c3de0-3e26-4ac5-b6d8-9a4f0d2c1e5a",
		CommerceID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		ImageKey:   "abc123",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsFieldsByJSONName(t *testing.T) {
	v := New()

	err := v.Validate(publishInput{ProductID: "not-a-uuid"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid UUID", details["product_id"])
	assert.Equal(t, "is required", details["commerce_id"])
	assert.Equal(t, "is required", details["image_key"])
}
