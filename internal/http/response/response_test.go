package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("Please authenticate")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "Please authenticate", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type registerRequest struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		Name     string `validate:"required,max=5"`
		Rating   int    `validate:"gte=1,lte=5"`
		Format   string `validate:"oneof=pdf epub mobi"`
	}

	err := validator.New().Struct(registerRequest{
		Email:    "not-an-email",
		Password: "short",
		Name:     "Alexander",
		Rating:   7,
		Format:   "doc",
	})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t,
		"field Email must be a valid email, "+
			"field Password must be at least 8, "+
			"field Name must be at most 5, "+
			"field Rating must be less than or equal to 5, "+
			"field Format must be one of [pdf epub mobi]",
		resp.Error)
}

func TestValidationErrorRequired(t *testing.T) {
	type request struct {
		Name string `validate:"required"`
	}

	err := validator.New().Struct(request{})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, "field Name is a required field", resp.Error)
}
