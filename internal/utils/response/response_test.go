package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	apperrors "mcadesk/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"domain error", apperrors.ErrDealNotFound, 404, "DEAL_NOT_FOUND", apperrors.ErrDealNotFound.Message},
		{"wrapped detail", fmt.Errorf("load: %w", apperrors.ErrInvalidTransition.WithDetail("NEW_LEAD -> FUNDED")), 422, "INVALID_TRANSITION", apperrors.ErrInvalidTransition.Message + ": NEW_LEAD -> FUNDED"},
		{"unknown", errors.New("pq: connection refused"), 500, "", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}
