package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"mistri/globals"
)

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := Claims{
		Username: userID,
		UserID:   userID,
		UserType: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsMalformedToken(t *testing.T) {
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run")
	})

	for _, header := range []string{"Token abcdefgh", "Bearer", "Bearer not.a.jwt"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		h(rec, req, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	var gotUser, gotRole string
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u42"))
	rec := httptest.NewRecorder()
	h(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u42", gotUser)
	require.Equal(t, "customer", gotRole)
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	called := false
	h := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		require.Nil(t, r.Context().Value(globals.UserIDKey))
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.True(t, called)
}

func TestOptionalAuthWithToken(t *testing.T) {
	var gotUser string
	h := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u42"))
	h(httptest.NewRecorder(), req, nil)
	require.Equal(t, "u42", gotUser)
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	called := false
	h := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		require.Nil(t, r.Context().Value(globals.UserIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h(httptest.NewRecorder(), req, nil)
	require.True(t, called)
}
