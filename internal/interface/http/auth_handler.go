package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/danieloks/account-service/internal/application"
	"github.com/danieloks/account-service/internal/interface/middleware"
	"github.com/danieloks/account-service/pkg/response"
	"github.com/danieloks/account-service/pkg/validation"
)

// AuthHandler exposes the email verification flow.
type AuthHandler struct {
	Verify *userapp.VerificationService
	Logger *logrus.Logger
}

func NewAuthHandler(verify *userapp.VerificationService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Verify: verify, Logger: logger}
}

// VerifyRequest POST /api/verify/request (auth required)
// Issues a fresh token for the caller and emails the verification link.
func (h *AuthHandler) VerifyRequest(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	link, err := h.Verify.Request(c.Request.Context(), id.ID)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrAlreadyVerified):
			response.Error[any](c, http.StatusBadRequest, "email already verified", nil)
		case errors.Is(err, userapp.ErrEmailDelivery):
			response.Error[any](c, http.StatusBadGateway, "could not send verification email", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("verification request failed")
			response.Error[any](c, http.StatusInternalServerError, "could not issue verification token", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verify_link": link}, "verification email sent", nil)
}

// VerifyConfirm POST /api/verify/confirm {token}
// Public: the caller proves email control with the raw token alone.
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	userID, err := h.Verify.Consume(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrTokenInvalid):
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		case errors.Is(err, userapp.ErrAlreadyVerified):
			response.Error[any](c, http.StatusBadRequest, "email already verified", nil)
		default:
			h.Logger.WithError(err).Error("verification confirm failed")
			response.Error[any](c, http.StatusInternalServerError, "could not verify email", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true, "user_id": userID}, "email verified", nil)
}
