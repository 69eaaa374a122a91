package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/noteflow-api/internal/api/shared"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/service"
)

// fakeUserService implements service.UserService with canned responses.
type fakeUserService struct {
	user  *domain.User
	token string
	err   error
}

var _ service.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(
	_ context.Context, _, _ string,
) (*domain.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeUserService) Login(
	_ context.Context, _, _ string,
) (*domain.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeUserService) GetUser(_ context.Context, _ uuid.UUID) (*domain.User, error) {
	return f.user, f.err
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("reader@example.com", "correct-horse-battery")
	require.NoError(t, err)
	return user
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	t.Run("returns token for new account", func(t *testing.T) {
		t.Parallel()

		svc := &fakeUserService{user: testUser(t), token: "signed.jwt.token"}
		h := NewAuthHandler(svc)

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/register",
			strings.NewReader(`{"email":"reader@example.com","password":"correct-horse-battery"}`),
		)
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, svc.user.ID, resp.UserID)
		assert.Equal(t, "reader@example.com", resp.Email)
		assert.Equal(t, "signed.jwt.token", resp.Token)
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()

		h := NewAuthHandler(&fakeUserService{})

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/register",
			strings.NewReader(`{"email":"reader@example.com","password":"short"}`),
		)
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps duplicate email to 409", func(t *testing.T) {
		t.Parallel()

		h := NewAuthHandler(&fakeUserService{err: service.ErrEmailTaken})

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/register",
			strings.NewReader(`{"email":"reader@example.com","password":"correct-horse-battery"}`),
		)
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns token for valid credentials", func(t *testing.T) {
		t.Parallel()

		svc := &fakeUserService{user: testUser(t), token: "signed.jwt.token"}
		h := NewAuthHandler(svc)

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/login",
			strings.NewReader(`{"email":"reader@example.com","password":"correct-horse-battery"}`),
		)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
	})

	t.Run("maps bad credentials to 401", func(t *testing.T) {
		t.Parallel()

		h := NewAuthHandler(&fakeUserService{err: service.ErrInvalidCredentials})

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/login",
			strings.NewReader(`{"email":"reader@example.com","password":"wrong-password-here"}`),
		)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated account", func(t *testing.T) {
		t.Parallel()

		user := testUser(t)
		h := NewAuthHandler(&fakeUserService{user: user})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, user.ID)
		rec := httptest.NewRecorder()
		h.Me(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		h := NewAuthHandler(&fakeUserService{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
