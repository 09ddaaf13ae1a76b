package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
	"github.com/iliyamo/banquet-hall-booking/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return c, rec, reached
}

func TestJWTAuth_ValidTokenInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, string(model.RoleAdmin2), 5)
	require.NoError(t, err)

	c, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	// Numeric claims come back as float64 after JSON decoding.
	assert.Equal(t, float64(7), c.Get("user_id"))
	assert.Equal(t, string(model.RoleAdmin2), c.Get("role"))
}

func TestJWTAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer not.a.jwt"} {
		_, rec, reached := invoke(t, JWTAuth(testSecret), header)
		assert.False(t, reached, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestJWTAuth_RejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, string(model.RoleCustomer), 5)
	require.NoError(t, err)

	_, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_RejectsExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, string(model.RoleCustomer), -1)
	require.NoError(t, err)

	_, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleAdmin1, model.RoleAdmin2)

	e := echo.New()
	run := func(role interface{}) (int, bool) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		reached := false
		h := mw(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec.Code, reached
	}

	code, reached := run(string(model.RoleAdmin1))
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, code)

	code, reached = run(string(model.RoleCustomer))
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, code)

	code, reached = run(nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, code)
}
