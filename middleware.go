package main

import (
	"context"
	"net/http"
	"time"

	"bhutanTravelWebsite/internal/auth"
	"bhutanTravelWebsite/internal/utils"
)

const authCookieName = "auth_token"

func (app *App) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		AppLogger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": duration.Milliseconds(),
			"status_code": wrapper.statusCode,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}).Info("HTTP request completed")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (app *App) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				AppLogger.WithFields(map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"panic":       err,
					"remote_addr": r.RemoteAddr,
				}).Error("Panic recovered in HTTP handler")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// verifyRequestIdentity reads and verifies the auth cookie. It returns the
// identity, or nil with an error message suitable for the client.
func (app *App) verifyRequestIdentity(r *http.Request) (*auth.Identity, string) {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return nil, "Authentication required"
	}

	identity, err := auth.VerifyToken(cookie.Value, app.Config.JWTSecret)
	if err != nil {
		switch err {
		case auth.ErrTokenExpired:
			return nil, "Credential expired - please log in again"
		default:
			return nil, "Invalid credential"
		}
	}
	return identity, ""
}

// AuthMiddleware gates JSON API handlers: any valid credential passes and
// the verified identity is placed in the request context.
func (app *App) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, failure := app.verifyRequestIdentity(r)
		if identity == nil {
			utils.AuthenticationError(w, failure)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, identity.UserID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, identity.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware requires the elevated role on top of AuthMiddleware.
func (app *App) AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := utils.GetUserRole(r)
		if !ok {
			utils.AuthenticationError(w, "")
			return
		}
		if role != auth.RoleAdmin {
			utils.AuthorizationError(w)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// PageAuthMiddleware gates server-rendered back-office pages; an unusable
// credential redirects to the login page instead of returning JSON.
func (app *App) PageAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := app.verifyRequestIdentity(r)
		if identity == nil {
			http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, identity.UserID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, identity.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CSRFMiddleware verifies the session CSRF token on mutating form posts; a
// JSON body to a wrapped route carries the token in the X-CSRF-Token header.
// The collection API is not wrapped: it relies on the SameSite=Lax HttpOnly
// auth cookie, which browsers do not attach to cross-site POSTs.
func (app *App) CSRFMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" || r.Method == "PUT" || r.Method == "DELETE" {
			session, err := app.SessionStore.Get(r, sessionName)
			if err != nil {
				http.Error(w, "Session error", http.StatusForbidden)
				return
			}

			expectedToken, ok := session.Values["csrf_token"].(string)
			if !ok || expectedToken == "" {
				http.Error(w, "CSRF token not found in session", http.StatusForbidden)
				return
			}

			var providedToken string
			if r.Header.Get("Content-Type") == "application/json" {
				providedToken = r.Header.Get("X-CSRF-Token")
			} else {
				providedToken = r.FormValue("csrf_token")
			}

			if providedToken != expectedToken {
				AppLogger.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"method": r.Method,
				}).Warn("CSRF token mismatch")
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}
		}

		next.ServeHTTP(w, r)
	}
}
