package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/trialapi/models"
)

var testKey = []byte("test-secret")

type userMap map[string]*models.User

func (m userMap) ByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := m[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func ok(c echo.Context) error { return c.String(http.StatusOK, c.Get(ContextUsername).(string)) }

func serve(t *testing.T, h echo.HandlerFunc, authorization string) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	if he, isHTTP := err.(*echo.HTTPError); isHTTP {
		return he.Code, ""
	}
	require.NoError(t, err)
	return rec.Code, rec.Body.String()
}

func TestJWT(t *testing.T) {
	token, err := NewToken("sec", testKey, time.Hour)
	require.NoError(t, err)
	expired, err := NewToken("sec", testKey, -time.Hour)
	require.NoError(t, err)
	foreign, err := NewToken("sec", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	h := JWT(testKey)(ok)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bearer token", "Bearer " + token, http.StatusOK},
		{"bare token", token, http.StatusOK},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, h, tt.header)
			assert.Equal(t, tt.want, code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "sec", body)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	users := userMap{
		"boss":  {Username: "boss", Role: models.RoleAdministrator},
		"admin": {Username: "admin", Role: "user"},
		"sec":   {Username: "sec", Role: "user"},
	}
	isAdmin := func(u string) bool { return u == "admin" }
	h := JWT(testKey)(RequireAdmin(users, isAdmin)(ok))

	tests := []struct {
		user string
		want int
	}{
		{"boss", http.StatusOK},
		{"admin", http.StatusOK},
		{"sec", http.StatusForbidden},
		{"ghost", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			token, err := NewToken(tt.user, testKey, time.Hour)
			require.NoError(t, err)
			code, _ := serve(t, h, "Bearer "+token)
			assert.Equal(t, tt.want, code)
		})
	}
}
