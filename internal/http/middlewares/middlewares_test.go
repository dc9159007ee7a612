package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-portal.com/ops-portal/internal/auth"
	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/policy"
)

func serve(e *echo.Echo, token, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if ip != "" {
		req.Header.Set(echo.HeaderXRealIP, ip)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_SetsActor(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	want := policy.Actor{ID: "analyst-1", Role: constants.RoleResponsible}
	token, err := tokens.Issue(want)
	require.NoError(t, err)

	e := echo.New()
	var got policy.Actor
	e.GET("/", func(c echo.Context) error {
		got, _ = ActorFrom(c)
		return c.NoContent(http.StatusNoContent)
	}, Auth(tokens))

	assert.Equal(t, http.StatusNoContent, serve(e, token, "").Code)
	assert.Equal(t, want, got)
}

func TestAuth_Rejects(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	expired, err := auth.NewTokenManager("secret", -time.Minute).Issue(policy.Actor{ID: "a", Role: constants.RoleAnalyst})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, Auth(tokens))

	cases := map[string]string{
		"missing": "",
		"garbage": "abc.def.ghi",
		"expired": expired,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(e, token, "").Code)
		})
	}
}

func TestRateLimiter_FixedWindowPerIP(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, rateLimiter(2, time.Minute, clock))

	assert.Equal(t, http.StatusNoContent, serve(e, "", "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, "", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "", "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, "", "10.0.0.2").Code)

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusNoContent, serve(e, "", "10.0.0.1").Code)
}

func TestRateLimiter_DisabledWhenNonPositive(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RateLimiter(0, time.Minute))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, "", "10.0.0.1").Code)
	}
}
