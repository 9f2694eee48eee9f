package session

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	sessionManagerKey = "session_manager"
	sessionServiceKey = "session_service"
)

func Middleware(manager *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if manager == nil {
				return next(c)
			}

			c.Set(sessionManagerKey, manager)

			var handlerErr error

			rw := &responseWriterWrapper{
				ResponseWriter: c.Response().Writer,
				echo:           c.Response(),
			}

			handler := manager.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), sessionManagerKey, manager)
				c.SetRequest(r.WithContext(ctx))
				c.Response().Writer = w
				handlerErr = next(c)
			}))

			handler.ServeHTTP(rw, c.Request())
			return handlerErr
		}
	}
}

// responseWriterWrapper keeps echo's status bookkeeping intact while scs
// writes its cookie headers.
type responseWriterWrapper struct {
	http.ResponseWriter
	echo *echo.Response
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if w.echo.Status == 0 {
		w.echo.Status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func GetManager(c echo.Context) *Manager {
	if manager := c.Get(sessionManagerKey); manager != nil {
		return manager.(*Manager)
	}
	return nil
}

func ServiceMiddleware(service SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if service != nil {
				c.Set(sessionServiceKey, service)
			}
			return next(c)
		}
	}
}

func GetSessionService(c echo.Context) SessionService {
	if service := c.Get(sessionServiceKey); service != nil {
		return service.(SessionService)
	}
	return nil
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAuthenticated(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
