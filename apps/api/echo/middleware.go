package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Mohan-b-dev/std-dash/core/session"
)

const (
	contextSessionKey = "session"
	authScheme        = "Bearer"
)

// sessionMiddleware resolves the bearer token into the request's Session.
// A missing, malformed, expired or revoked token leaves the request anonymous: the view's gate decides.
func sessionMiddleware(svc *session.Service) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Skipper: func(ctx echo.Context) bool {
			prefix := authScheme + " "
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			return len(auth) <= len(prefix) || !strings.HasPrefix(auth, prefix)
		},
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: authScheme,
		Validator: func(token string, ctx echo.Context) (bool, error) {
			if s, err := svc.Resolve(ctx.Request().Context(), token); err == nil {
				ctx.Set(contextSessionKey, &s)
			}
			return true, nil
		},
	})
}

func contextSession(ctx echo.Context) *session.Session {
	s, _ := ctx.Get(contextSessionKey).(*session.Session)
	return s
}
