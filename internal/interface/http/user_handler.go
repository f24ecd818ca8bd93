package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/danieloks/account-service/internal/application"
	"github.com/danieloks/account-service/internal/interface/middleware"
	"github.com/danieloks/account-service/pkg/helpers"
	"github.com/danieloks/account-service/pkg/response"
	"github.com/danieloks/account-service/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, sess, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrValidation):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "user already exists", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error[any](c, http.StatusInternalServerError, "could not create user", nil)
		}
		return
	}

	h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusCreated, gin.H{
		"user":  u.Public(),
		"token": sess.Token,
	}, "registered", map[string]any{"expires_at": sess.ExpiresAt})
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found, sign up", nil)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "could not log in", nil)
		}
		return
	}

	h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"user":  u.Public(),
		"token": sess.Token,
	}, "login successful", map[string]any{"expires_at": sess.ExpiresAt})
}

// Logout GET /api/logout
// Sessions are stateless; logout only discards the client-held cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GetProfile GET /api/profile (auth required)
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	pub, err := h.Svc.GetProfile(c.Request.Context(), id.ID)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		} else {
			h.Logger.WithError(err).Error("get profile failed")
			response.Error[any](c, http.StatusInternalServerError, "could not load profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, pub, "profile", nil)
}

// UpdateProfile PATCH /api/profile (auth required)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pub, err := h.Svc.UpdateProfile(c.Request.Context(), id.ID, userapp.UpdateProfileInput{
		Name:  req.Name,
		Bio:   req.Bio,
		Photo: req.Photo,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		} else {
			h.Logger.WithError(err).Error("update profile failed")
			response.Error[any](c, http.StatusInternalServerError, "could not update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, pub, "profile updated", nil)
}

// UploadPhoto POST /api/profile/photo (auth required, multipart form)
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read photo", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), id.ID, f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("photo upload failed")
		response.Error[any](c, http.StatusInternalServerError, "could not upload photo", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo": url}, "photo updated", nil)
}
