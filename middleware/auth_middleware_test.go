package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindexch/mindexch_backend/models"
)

func invokeWithRole(t *testing.T, role string, guard echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := guard(func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{Status: http.StatusOK, Message: "ok"})
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	rec := invokeWithRole(t, models.RoleAdmin, RequireRole(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = invokeWithRole(t, models.RoleBettor, RequireRole(models.RoleAdmin, models.RoleBettor))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsMismatch(t *testing.T) {
	rec := invokeWithRole(t, models.RoleBettor, RequireRole(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	rec := invokeWithRole(t, "", RequireRole(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
