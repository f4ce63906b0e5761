package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": 1})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Name     string `validate:"required"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	validate := validator.New()

	tests := []struct {
		name string
		in   payload
		want string
	}{
		{
			name: "missing required field",
			in:   payload{Email: "a@b.com", Password: "secret123"},
			want: "field Name is a required field",
		},
		{
			name: "invalid email",
			in:   payload{Name: "Alice", Email: "not-an-email", Password: "secret123"},
			want: "field Email must be a valid email address",
		},
		{
			name: "too short password",
			in:   payload{Name: "Alice", Email: "a@b.com", Password: "123"},
			want: "field Password is too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}
