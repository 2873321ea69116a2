package requestcontext

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithClientIP(t *testing.T) {
	type testcase struct {
		name       string
		config     WithClientIPConfig
		headers    map[string]string
		wantIP     string
		wantStatus int
	}
	testcases := []testcase{
		{
			name:       "trusted header",
			config:     WithClientIPConfig{TrustedHeader: "CF-Connecting-IP"},
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.7"},
			wantIP:     "203.0.113.7",
			wantStatus: http.StatusOK,
		},
		{
			name:       "first forwarded ip",
			headers:    map[string]string{fiber.HeaderXForwardedFor: "203.0.113.7, 10.0.0.1"},
			wantIP:     "203.0.113.7",
			wantStatus: http.StatusOK,
		},
		{
			name:       "walk back trusted proxies",
			config:     WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			headers:    map[string]string{fiber.HeaderXForwardedFor: "198.51.100.1, 203.0.113.7, 10.0.0.1"},
			wantIP:     "203.0.113.7",
			wantStatus: http.StatusOK,
		},
		{
			name:       "reject malformed",
			config:     WithClientIPConfig{EnableRejectMalformedRequest: true},
			headers:    map[string]string{fiber.HeaderXForwardedFor: "203.0.113.7"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var gotIP string
			app := fiber.New()
			app.Use(New(WithClientIP(tc.config)))
			app.Get("/", func(c *fiber.Ctx) error {
				gotIP = GetClientIP(c.UserContext())
				return c.SendStatus(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantIP, gotIP)
		})
	}
}

func TestWithRequestId(t *testing.T) {
	var gotID string
	app := fiber.New()
	app.Use(requestid.New(), New(WithRequestId()))
	app.Get("/", func(c *fiber.Ctx) error {
		gotID = GetRequestId(c.UserContext())
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "scan-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "scan-42", gotID)
}
