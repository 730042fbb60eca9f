package handler

import (
	"net/http"
	"time"

	"contract-registry/api/middleware"
	"contract-registry/api/response"
	"contract-registry/config"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "username and password are required")
		return
	}

	var found *config.User
	for i := range h.cfg.Users {
		if h.cfg.Users[i].Username == req.Username {
			found = &h.cfg.Users[i]
			break
		}
	}
	if found == nil || found.Password != req.Password {
		response.FailStatus(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	expires := time.Duration(h.cfg.Auth.TokenExpireHours) * time.Hour
	token, err := middleware.IssueToken(h.cfg.Auth.JWTSecret, req.Username, expires)
	if err != nil {
		response.Fail(c, "token issue failed")
		return
	}
	response.Success(c, gin.H{"token": token})
}
