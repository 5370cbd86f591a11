package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/logging"
)

// generateAPIKey generates a valid API key of specified length
func generateAPIKey(length int) string {
	key := make([]byte, length)
	for i := range key {
		key[i] = 'a' + byte(i%26)
	}
	return string(key)
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{"exactly 32 chars", generateAPIKey(32), true},
		{"longer than 32 chars", generateAPIKey(64), true},
		{"31 chars", generateAPIKey(31), false},
		{"empty", "", false},
		{"32 spaces", strings.Repeat(" ", 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateAPIKey(tt.key))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("abc"))
	assert.Equal(t, "****", maskAPIKey("abcd"))
	assert.Equal(t, "abcd****", maskAPIKey("abcdefgh"))
}

func authApp(cfg config.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.Nop(), cfg))
	app.Get("/v1/trend", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := authApp(config.AuthConfig{Enabled: false})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/trend", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIKeyAuth_Headers(t *testing.T) {
	key := generateAPIKey(40)
	other := strings.Repeat("z", 40)
	app := authApp(config.AuthConfig{Enabled: true, APIKeys: []string{other, key}})

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"x-api-key", "X-API-Key", key, fiber.StatusOK},
		{"bearer", "Authorization", "Bearer " + key, fiber.StatusOK},
		{"plain authorization", "Authorization", key, fiber.StatusOK},
		{"wrong key", "X-API-Key", generateAPIKey(39) + "!", fiber.StatusUnauthorized},
		{"missing", "", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/trend", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPIKeyAuth_WeakKeysRejected(t *testing.T) {
	weak := "short-key"
	app := authApp(config.AuthConfig{Enabled: true, APIKeys: []string{weak}})

	req := httptest.NewRequest("GET", "/v1/trend", nil)
	req.Header.Set("X-API-Key", weak)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
