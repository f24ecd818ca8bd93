package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/danieloks/account-service/internal/domain/entity"
	repo "github.com/danieloks/account-service/internal/domain/repository"
	"github.com/danieloks/account-service/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) SetVerified(context.Context, string) error  { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error       { return nil }
func (s *stubUserRepo) List(context.Context) ([]*entity.User, error) { return nil, nil }

var _ repo.UserRepository = (*stubUserRepo)(nil)

func newAuthRouter(users repo.UserRepository, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Auth(users, jwt)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.String(http.StatusOK, id.ID)
	})
	r.GET("/protected", chain...)
	return r
}

func doGet(t *testing.T, r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Email: "a@x.com", Name: "A", Role: entity.RoleUser},
	}}
	r := newAuthRouter(users, jwt)

	t.Run("no cookie", func(t *testing.T) {
		w := doGet(t, r, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "not authorized, no token")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(t, r, "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "not authorized, token failed")
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := helpers.NewJWTManager("other-secret", time.Hour)
		tok, _, err := other.Generate("u-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		tok, _, err := jwt.Generate("gone")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("valid session resolves identity", func(t *testing.T) {
		tok, _, err := jwt.Generate("u-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "u-1", w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"admin-1": {ID: "admin-1", Role: entity.RoleAdmin},
		"user-1":  {ID: "user-1", Role: entity.RoleUser},
	}}
	r := newAuthRouter(users, jwt, RequireRole(entity.RoleAdmin))

	t.Run("admin passes", func(t *testing.T) {
		tok, _, err := jwt.Generate("admin-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user denied", func(t *testing.T) {
		tok, _, err := jwt.Generate("user-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Contains(t, w.Body.String(), ErrForbiddenRole.Error())
	})
}

func TestRequireVerified(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"v-1": {ID: "v-1", Role: entity.RoleUser, IsVerified: true},
		"n-1": {ID: "n-1", Role: entity.RoleUser},
	}}
	r := newAuthRouter(users, jwt, RequireVerified())

	t.Run("verified passes", func(t *testing.T) {
		tok, _, err := jwt.Generate("v-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unverified denied", func(t *testing.T) {
		tok, _, err := jwt.Generate("n-1")
		require.NoError(t, err)
		w := doGet(t, r, tok)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Contains(t, w.Body.String(), ErrNotVerified.Error())
	})
}
