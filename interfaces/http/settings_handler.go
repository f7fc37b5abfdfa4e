package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopost/domain/dto"
	"autopost/infrastructure/logger"
	"autopost/interfaces/middleware"
	"autopost/usecase"
)

type ISettingsHandler interface {
	Get(c *gin.Context)
	Update(c *gin.Context)
}

type SettingsHandler struct {
	settingsUsecase usecase.ISettingsUsecase
}

func NewSettingsHandler(settingsUsecase usecase.ISettingsUsecase) ISettingsHandler {
	return &SettingsHandler{settingsUsecase: settingsUsecase}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsUsecase.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsUsecase.Update(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}
