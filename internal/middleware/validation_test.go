package middleware_test

import (
	"net/http/httptest"
	"testing"

	"exam-byte/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAttemptListParams(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedID     string
		expectedLimit  int
	}{
		{"defaults", "/papers/demo/attempts", fiber.StatusOK, "demo", 0},
		{"with limit", "/papers/jee-2024_s1/attempts?limit=10", fiber.StatusOK, "jee-2024_s1", 10},
		{"limit not a number", "/papers/demo/attempts?limit=ten", fiber.StatusBadRequest, "", 0},
		{"limit too large", "/papers/demo/attempts?limit=101", fiber.StatusBadRequest, "", 0},
		{"negative limit", "/papers/demo/attempts?limit=-1", fiber.StatusBadRequest, "", 0},
		{"bad paper id", "/papers/bad.id/attempts", fiber.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := middleware.NewValidationMiddleware()
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})

			var gotID string
			var gotLimit int
			app.Get("/papers/:id/attempts", vm.ValidateAttemptListParams(), func(c *fiber.Ctx) error {
				gotID, _ = c.Locals(middleware.ValidatedPaperIDKey).(string)
				gotLimit, _ = c.Locals(middleware.ValidatedLimitKey).(int)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedID, gotID)
			assert.Equal(t, tt.expectedLimit, gotLimit)
		})
	}
}
