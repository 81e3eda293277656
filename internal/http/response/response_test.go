package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKAndError(t *testing.T) {
	ok := OK()
	assert.Equal(t, StatusOK, ok.Status)
	assert.Empty(t, ok.Error)
	assert.Nil(t, ok.Data)

	withData := OKWithData(map[string]any{"id": 1})
	assert.Equal(t, StatusOK, withData.Status)
	assert.NotNil(t, withData.Data)

	errResp := Error("something broke")
	assert.Equal(t, StatusError, errResp.Status)
	assert.Equal(t, "something broke", errResp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Username string `validate:"required"`
		Email    string `validate:"email"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
	assert.Contains(t, resp.Error, "field Email must be a valid email")
}
