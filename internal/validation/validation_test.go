package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

func TestValidateRoleplayRequest(t *testing.T) {
	v := New()

	assert.Nil(t, v.ValidateRoleplayRequest(&models.RoleplayRequest{Message: "hello"}))

	cases := map[string]struct {
		req  *models.RoleplayRequest
		code errors.ErrorCode
		msg  string
	}{
		"nil body": {nil, errors.ErrCodeInvalidRequest, "Request body is required"},
		"empty":    {&models.RoleplayRequest{}, errors.ErrCodeValidationFailed, "'message' field is required"},
		"blank":    {&models.RoleplayRequest{Message: " \n\t"}, errors.ErrCodeValidationFailed, "'message' field is required"},
		"too long": {&models.RoleplayRequest{Message: strings.Repeat("a", 2001)}, errors.ErrCodeValidationFailed, "'message' field is too long (maximum 2000 characters)"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			appErr := v.ValidateRoleplayRequest(tc.req)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.msg, appErr.Message)
		})
	}
}

func TestSanitizeMessage(t *testing.T) {
	v := New()
	assert.Equal(t, "a\n\nb", v.SanitizeMessage("  a\n\n\n\n\nb\x00 "))
	assert.Equal(t, "plain", v.SanitizeMessage("plain"))
}
