package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/session"
	"github.com/trezcool/rapor/core/user"
)

const contextUserKey = "user"

// requireRole resolves the session user and rejects the request unless it has one of roles.
// No roles means any authenticated user. Handlers behind it can rely on getContextUser.
func requireRole(resolver *session.Resolver, roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			usr, err := resolver.CurrentUser(req.Context(), req)
			if err != nil {
				return errors.Wrap(err, "resolving current user")
			}
			if usr == nil {
				return errUnauthorized
			}
			ctx.Set(contextUserKey, *usr)

			if len(roles) > 0 && !usr.Role.In(roles...) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(user.User)
	return usr, ok
}

func mustContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := getContextUser(ctx); ok {
		return usr, nil
	}
	return user.User{}, errors.New("user object not found in echo.Context")
}

func sessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type authApi struct {
	userSvc  *user.Service
	codec    *session.Codec
	validate *validator.Validate
	secure   bool
}

func registerAuthAPI(g *echo.Group, resolver *session.Resolver, deps ServerDeps) {
	api := authApi{
		userSvc:  deps.UserSvc,
		codec:    deps.Codec,
		validate: deps.Validate,
		secure:   deps.Conf.Session.CookieSecure,
	}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me, requireRole(resolver))
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.userSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCreds {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	ctx.Set(contextUserKey, usr)

	token, err := api.codec.Issue(usr.ID, usr.Role)
	if err != nil {
		return errors.Wrap(err, "issuing session token")
	}
	ctx.SetCookie(sessionCookie(token, api.codec.TTL(), api.secure))

	return ctx.JSON(http.StatusOK, UserResponse{User: newSessionUser(usr)})
}

// logout always succeeds, with or without a session.
func (api *authApi) logout(ctx echo.Context) error {
	ctx.SetCookie(expiredSessionCookie(api.secure))
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Logged out successfully."})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := mustContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, UserResponse{User: newSessionUser(usr)})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SessionUser struct {
		ID    string    `json:"id"`
		Email string    `json:"email"`
		Name  string    `json:"name"`
		Role  user.Role `json:"role"`
	}

	UserResponse struct {
		User SessionUser `json:"user"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func newSessionUser(usr user.User) SessionUser {
	return SessionUser{ID: usr.ID, Email: usr.Email, Name: usr.Name, Role: usr.Role}
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
