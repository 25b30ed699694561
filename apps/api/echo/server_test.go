package echoapi

import (
	"net/http"
	"syscall"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/user"
)

func TestServer_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Rapor API!", rec.Body.String())

	req, rec = newRequest(http.MethodGet, "/api/auth/me/")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "trailing slashes are removed")
}

func TestServer_errorHandler(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "Admin", "admin@sman1.sch.id", user.RoleAdmin)

	app.server.app.GET("/boom", func(echo.Context) error {
		return core.NewShutdownError("integrity issue: users table is gone")
	}, requireRole(app.server.resolver))

	req, rec := newAuthRequest(http.MethodGet, "/boom", app.getToken(t, admin))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusInternalServerError, wantData: marchallObj(t, errInternal)}, rec)
	assert.NotContains(t, rec.Body.String(), "integrity")

	t.Run("logs the acting user", func(t *testing.T) {
		logged := app.logger.Errors()
		require.Len(t, logged, 1)
		assert.Equal(t, "Internal Server Error", logged[0].msg)
		assert.Contains(t, logged[0].args, admin)
	})

	t.Run("shutdown errors stop the server", func(t *testing.T) {
		select {
		case sig := <-app.server.ShutdownSignal():
			assert.Equal(t, syscall.SIGTERM, sig)
		default:
			t.Error("no shutdown signal")
		}
	})
}
