package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/service"
)

type fakeResolver struct {
	currentUser func(ctx context.Context, token string) (*service.UserSnapshot, error)
}

func (f *fakeResolver) CurrentUser(ctx context.Context, token string) (*service.UserSnapshot, error) {
	return f.currentUser(ctx, token)
}

func newAuthRouter(resolver UserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mw := NewAuthMiddleware(resolver)
	router.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return router
}

func TestRequireAuth_ValidToken(t *testing.T) {
	resolver := &fakeResolver{
		currentUser: func(ctx context.Context, token string) (*service.UserSnapshot, error) {
			require.Equal(t, "valid-token", token)
			return &service.UserSnapshot{ID: 3, Email: "alice@example.com"}, nil
		},
	}
	router := newAuthRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":3`)
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	resolver := &fakeResolver{
		currentUser: func(ctx context.Context, token string) (*service.UserSnapshot, error) {
			return nil, apperrors.ErrInvalidToken
		},
	}
	router := newAuthRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Could not validate credentials")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	resolver := &fakeResolver{
		currentUser: func(ctx context.Context, token string) (*service.UserSnapshot, error) {
			t.Fatal("resolver should not be reached without a header")
			return nil, nil
		},
	}
	router := newAuthRouter(resolver)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "token-without-scheme"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer abc def", "abc def", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}

		token, ok := BearerToken(c)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.token, token, "header %q", tc.header)
	}
}
