package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/auth/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	uc       auth.UseCase
	sessions *auth.SessionManager
	logger   logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, sessions *auth.SessionManager, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions, logger: log}
}

func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.SignUp)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", auth.RequireUser(h.logger), h.Me)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.RegisterRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	u, err := h.uc.Register(c.Request.Context(), &req)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	u, redirect, err := h.uc.Login(c.Request.Context(), &req)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	if err := h.sessions.Start(c, auth.SessionUser{ID: u.ID, Email: u.Email, Role: u.Role}); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{User: u, Redirect: redirect})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusSeeOther, httpx.LoginPath)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.uc.Me(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
