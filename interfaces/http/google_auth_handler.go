package http

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"autopost/domain/model"
	"autopost/domain/repository"
	"autopost/infrastructure/clients/googleauth"
	"autopost/infrastructure/configuration"
	"autopost/infrastructure/logger"
	"autopost/interfaces/middleware"
)

type IGoogleAuthHandler interface {
	IsConfigured(c *gin.Context)
	GetAuthURL(c *gin.Context)
	HandleCallback(c *gin.Context)
	Disconnect(c *gin.Context)
	ConnectionStatus(c *gin.Context)
	GetChannelInfo(c *gin.Context)
}

type GoogleAuthHandler struct {
	tokenRepo     repository.IOAuthToken
	tokenProvider *googleauth.TokenProvider
	publisher     repository.IVideoPublisher
}

func NewGoogleAuthHandler(
	tokenRepo repository.IOAuthToken,
	tokenProvider *googleauth.TokenProvider,
	publisher repository.IVideoPublisher,
) IGoogleAuthHandler {
	return &GoogleAuthHandler{
		tokenRepo:     tokenRepo,
		tokenProvider: tokenProvider,
		publisher:     publisher,
	}
}

// IsConfigured handles GET /google/configured
func (h *GoogleAuthHandler) IsConfigured(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"configured": configuration.IsGoogleConfigured()})
}

// GetAuthURL handles GET /api/google/auth-url
func (h *GoogleAuthHandler) GetAuthURL(c *gin.Context) {
	provider := c.Query("provider")
	if provider != model.ProviderGoogleDrive && provider != model.ProviderGoogleYouTube {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider"})
		return
	}

	state := generateRandomState()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url, err := googleauth.AuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// HandleCallback handles POST /api/google/callback
func (h *GoogleAuthHandler) HandleCallback(c *gin.Context) {
	var req struct {
		Code     string `json:"code" binding:"required"`
		Provider string `json:"provider" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Provider != model.ProviderGoogleDrive && req.Provider != model.ProviderGoogleYouTube {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider"})
		return
	}

	token, err := googleauth.Exchange(c.Request.Context(), req.Provider, req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get access token"})
		return
	}

	stored := &model.OAuthToken{
		UserID:      middleware.UserID(c),
		Provider:    req.Provider,
		AccessToken: token.AccessToken,
	}
	if token.RefreshToken != "" {
		stored.RefreshToken = &token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		stored.ExpiresAt = &expiry
	}
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		stored.Scope = &scope
	}

	if err := h.tokenRepo.UpsertToken(c.Request.Context(), stored); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie("oauth_state", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Disconnect handles DELETE /api/google/:provider
func (h *GoogleAuthHandler) Disconnect(c *gin.Context) {
	provider := c.Param("provider")
	if provider != model.ProviderGoogleDrive && provider != model.ProviderGoogleYouTube {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider"})
		return
	}

	if err := h.tokenProvider.Revoke(c.Request.Context(), middleware.UserID(c), provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConnectionStatus handles GET /api/google/status
func (h *GoogleAuthHandler) ConnectionStatus(c *gin.Context) {
	userID := middleware.UserID(c)

	driveToken, err := h.tokenRepo.GetToken(c.Request.Context(), userID, model.ProviderGoogleDrive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	youtubeToken, err := h.tokenRepo.GetToken(c.Request.Context(), userID, model.ProviderGoogleYouTube)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drive":   driveToken != nil,
		"youtube": youtubeToken != nil,
	})
}

// GetChannelInfo handles GET /api/google/channel
func (h *GoogleAuthHandler) GetChannelInfo(c *gin.Context) {
	channel, err := h.publisher.GetChannelInfo(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, channel)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}
