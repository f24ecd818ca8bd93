package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/danieloks/account-service/internal/domain/entity"
	repo "github.com/danieloks/account-service/internal/domain/repository"
	handlers "github.com/danieloks/account-service/internal/interface/http"
	"github.com/danieloks/account-service/internal/interface/middleware"
	"github.com/danieloks/account-service/pkg/helpers"
)

// AdminModule wires user management routes behind the admin role gate.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, users repo.UserRepository, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Auth(m.Users, m.JWT),
		middleware.RequireRole(entity.RoleAdmin),
	)
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/search", m.Handler.Search)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
	}
}
