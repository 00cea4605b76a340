package server

import (
	"moontech/handlers"
	"moontech/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "test-signing-secret"

type testLogger struct{}

func (testLogger) FeatureEvent(string, string, string) {}
func (testLogger) Debug(string)                        {}
func (testLogger) Warn(string)                         {}
func (testLogger) Error(string, error)                 {}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conf := &config.Config{}
	conf.Jwt.Secret = testJwtSecret
	auth, err := handlers.NewAuth(conf)
	require.NoError(t, err)
	server := NewServer(conf, testLogger{})
	server.SetAuth(auth)
	return server
}

func issueToken(t *testing.T, userId string, isAdmin bool) string {
	t.Helper()
	claims := handlers.Claims{
		UserId:  userId,
		Email:   userId + "@example.com",
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJwtSecret))
	require.NoError(t, err)
	return signed
}

func TestSecuredRejectsMissingToken(t *testing.T) {
	server := newTestServer(t)
	handler := server.secured(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
		t.Fatal("handler must not run without a token")
	})

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSecuredAcceptsBearerToken(t *testing.T) {
	server := newTestServer(t)
	var seen *handlers.Claims
	handler := server.secured(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
		seen = claims
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	request.Header.Set("Authorization", "Bearer "+issueToken(t, "u1", false))
	recorder := httptest.NewRecorder()
	handler(recorder, request, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserId)
}

func TestSecuredAcceptsQueryToken(t *testing.T) {
	server := newTestServer(t)
	handler := server.secured(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/ws/orders?token="+issueToken(t, "u1", true), nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSecuredRejectsForgedToken(t *testing.T) {
	server := newTestServer(t)
	handler := server.secured(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
		t.Fatal("handler must not run with a forged token")
	})

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, handlers.Claims{UserId: "u1"}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	request := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	request.Header.Set("Authorization", "Bearer "+forged)
	recorder := httptest.NewRecorder()
	handler(recorder, request, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminRequiresAdminClaim(t *testing.T) {
	server := newTestServer(t)
	handler := server.admin(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/orders/all", nil)
	request.Header.Set("Authorization", "Bearer "+issueToken(t, "u1", false))
	recorder := httptest.NewRecorder()
	handler(recorder, request, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	request.Header.Set("Authorization", "Bearer "+issueToken(t, "admin", true))
	recorder = httptest.NewRecorder()
	handler(recorder, request, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestClientIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "203.0.113.7", clientIP(request))

	request.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.2")
	assert.Equal(t, "198.51.100.1", clientIP(request))
}
