package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (access.Requester, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(access.Requester), args.Error(1)
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newAuthRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(), AuthMiddleware(auth))
	handlers := append(extra, func(c *gin.Context) {
		r := CurrentRequester(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": r.Authenticated, "user_id": r.UserID})
	})
	router.Any("/", handlers...)
	return router
}

func TestAuthMiddlewareAnonymous(t *testing.T) {
	auth := new(mockAuthenticator)
	router := newAuthRouter(auth)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestAuthMiddlewareSchemes(t *testing.T) {
	userID := uuid.New()
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").
		Return(access.Requester{UserID: userID, Authenticated: true}, nil)
	router := newAuthRouter(auth)

	for _, header := range []string{"Token good", "Bearer good"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Contains(t, w.Body.String(), userID.String())
	}
	auth.AssertNumberOfCalls(t, "Authenticate", 2)
}

func TestAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "bad").
		Return(access.Anonymous(), errs.NewUnauthorizedError("invalid token"))
	router := newAuthRouter(auth)

	for _, header := range []string{"Token bad", "Basic abc", "Token", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequireAuth(t *testing.T) {
	router := newAuthRouter(new(mockAuthenticator), RequireAuth())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePolicy(t *testing.T) {
	plain := access.Requester{UserID: uuid.New(), Authenticated: true}
	admin := access.Requester{UserID: uuid.New(), Authenticated: true, IsSuperuser: true}

	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "plain").Return(plain, nil)
	auth.On("Authenticate", mock.Anything, "admin").Return(admin, nil)
	router := newAuthRouter(auth, RequirePolicy(access.AdminOrReadOnly{}))

	tests := []struct {
		method string
		token  string
		want   int
	}{
		{http.MethodGet, "", http.StatusOK},
		{http.MethodPost, "", http.StatusUnauthorized},
		{http.MethodPost, "plain", http.StatusForbidden},
		{http.MethodDelete, "plain", http.StatusForbidden},
		{http.MethodPost, "admin", http.StatusOK},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, "/", nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Token "+tt.token)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s with %q", tt.method, tt.token)
	}
}
