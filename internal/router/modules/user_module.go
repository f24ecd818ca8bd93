package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/danieloks/account-service/internal/domain/repository"
	handlers "github.com/danieloks/account-service/internal/interface/http"
	"github.com/danieloks/account-service/internal/interface/middleware"
	"github.com/danieloks/account-service/pkg/helpers"
)

// UserModule wires account lifecycle routes.
// Public: POST /api/register, POST /api/login, GET /api/logout
// Protected: GET /api/profile, PATCH /api/profile, POST /api/profile/photo
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.GET("/logout", m.Handler.Logout)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/photo", m.Handler.UploadPhoto)
	}
}
