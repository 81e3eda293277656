package middlewarectx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/card-management/internal/lib/jwt"
	"github.com/magabrotheeeer/card-management/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	msg, _ := got["error"].(string)
	return msg
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)
	expiredMaker := jwt.NewJWTMaker("test-secret", -time.Minute)

	validToken, err := maker.GenerateToken("testuser", models.RoleUser)
	require.NoError(t, err)
	expiredToken, err := expiredMaker.GenerateToken("testuser", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name         string
		authHeader   string
		wantStatus   int
		wantError    string
		wantNextCall bool
	}{
		{
			name:         "valid token",
			authHeader:   "Bearer " + validToken,
			wantStatus:   http.StatusOK,
			wantNextCall: true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantError:  "authorization required",
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantError:  "authorization required",
		},
		{
			name:       "expired token has distinct diagnostic",
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
			wantError:  "token expired",
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "testuser", r.Context().Value(User))
				assert.Equal(t, "user", r.Context().Value(Role))
			})

			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNextCall, nextCalled)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec))
			}
		})
	}
}

func TestJWTMiddleware_DoesNotOverwriteIdentity(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)

	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// Личность из контекста сохраняется, заголовок не разбирается.
		assert.Equal(t, "original", r.Context().Value(User))
	})

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req = req.WithContext(context.WithValue(req.Context(), User, "original"))
	rec := httptest.NewRecorder()

	JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		ctxRole      any
		required     models.Role
		wantStatus   int
		wantError    string
		wantNextCall bool
	}{
		{
			name:         "admin passes admin check",
			ctxRole:      "admin",
			required:     models.RoleAdmin,
			wantStatus:   http.StatusOK,
			wantNextCall: true,
		},
		{
			name:       "user is forbidden from admin routes",
			ctxRole:    "user",
			required:   models.RoleAdmin,
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "unknown role is forbidden",
			ctxRole:    "superuser",
			required:   models.RoleAdmin,
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "missing role",
			ctxRole:    nil,
			required:   models.RoleAdmin,
			wantStatus: http.StatusUnauthorized,
			wantError:  "authorization required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/cards", nil)
			if tt.ctxRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.ctxRole))
			}
			rec := httptest.NewRecorder()

			RequireRole(newNoopLogger(), tt.required)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNextCall, nextCalled)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec))
			}
		})
	}
}
