package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/danieloks/account-service/internal/domain/repository"
	handlers "github.com/danieloks/account-service/internal/interface/http"
	"github.com/danieloks/account-service/internal/interface/middleware"
	"github.com/danieloks/account-service/pkg/helpers"
)

// AuthModule wires the email verification flow.
// Confirm is public: possession of the raw token is the whole proof.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/verify/confirm", m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.POST("/verify/request", m.Handler.VerifyRequest)
	}
}
