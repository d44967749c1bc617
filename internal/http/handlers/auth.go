package handlers

import (
	"net/http"
	"strings"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	o, err := h.Owners.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "email atau password salah", nil)
			return
		}
		utils.LogEvent(middleware.GetRequestID(c), "auth", "login_error", err.Error())
		RespondDomainError(c, domain.StorageError{Op: "owners.get_by_email", Err: err})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "email atau password salah", nil)
		return
	}

	token, err := middleware.IssueToken(h.JWTSecret, h.tokenTTL(), domain.RequestContext{
		OwnerID: o.ID,
		Email:   strings.ToLower(o.Email),
	}, h.now())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal membuat token", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "owner_id="+o.ID)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"owner": o,
	})
}
