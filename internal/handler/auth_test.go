package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/socialapi-dev/socialapi/internal/errors"
)

func TestRegisterHandler(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		var gotEmail, gotPassword string
		auth := &MockAuthService{
			MockRegister: func(email, password string) error {
				gotEmail, gotPassword = email, password
				return nil
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodPost, "/register", []byte(`{"email": "alice@example.com", "password": "Secr3t!"}`))
		rr := serve(t, router, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "alice@example.com", gotEmail)
		assert.Equal(t, "Secr3t!", gotPassword)
		assert.JSONEq(t, `{"detail": "Successfully signed up, please confirm your email"}`, rr.Body.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		router := testRouter(&MockAuthService{}, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodPost, "/register", []byte(`{not json::}`))
		rr := serve(t, router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed email", func(t *testing.T) {
		router := testRouter(&MockAuthService{}, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodPost, "/register", []byte(`{"email": "not-an-email", "password": "x"}`))
		rr := serve(t, router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		auth := &MockAuthService{
			MockRegister: func(email, password string) error {
				return internal_errors.BadRequest("A user with this email already exists")
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodPost, "/register", []byte(`{"email": "alice@example.com", "password": "x"}`))
		rr := serve(t, router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"detail": "A user with this email already exists"}`, rr.Body.String())
	})
}

func TestTokenHandler(t *testing.T) {
	loginForm := func(username, password string) *http.Request {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	t.Run("successful login", func(t *testing.T) {
		auth := &MockAuthService{
			MockLogin: func(email, password string) (string, error) {
				return "issued-token", nil
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		rr := serve(t, router, loginForm("alice@example.com", "Secr3t!"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"access_token": "issued-token", "token_type": "bearer"}`, rr.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		router := testRouter(&MockAuthService{}, &MockPostService{}, &MockUploader{}, &MockPinger{})

		rr := serve(t, router, loginForm("alice@example.com", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad credentials get bearer challenge", func(t *testing.T) {
		auth := &MockAuthService{
			MockLogin: func(email, password string) (string, error) {
				return "", internal_errors.Unauthorized("Could not validate credentials")
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		rr := serve(t, router, loginForm("alice@example.com", "wrong"))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"detail": "Could not validate credentials"}`, rr.Body.String())
	})

	t.Run("unconfirmed email", func(t *testing.T) {
		auth := &MockAuthService{
			MockLogin: func(email, password string) (string, error) {
				return "", &internal_errors.ErrorWithStatusCode{Message: "Email not confirmed", StatusCode: http.StatusForbidden}
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		rr := serve(t, router, loginForm("alice@example.com", "Secr3t!"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"detail": "Email not confirmed"}`, rr.Body.String())
	})
}

func TestConfirmHandler(t *testing.T) {
	t.Run("successful confirmation", func(t *testing.T) {
		var gotToken string
		auth := &MockAuthService{
			MockConfirm: func(tokenStr string) error {
				gotToken = tokenStr
				return nil
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodGet, "/confirm/some.jwt.token", nil)
		rr := serve(t, router, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "some.jwt.token", gotToken)
		assert.JSONEq(t, `{"detail": "Email confirmed"}`, rr.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		auth := &MockAuthService{
			MockConfirm: func(tokenStr string) error {
				return internal_errors.Unauthorized("Token has expired")
			},
		}
		router := testRouter(auth, &MockPostService{}, &MockUploader{}, &MockPinger{})

		req := createRequest(t, http.MethodGet, "/confirm/stale", nil)
		rr := serve(t, router, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"detail": "Token has expired"}`, rr.Body.String())
	})
}
