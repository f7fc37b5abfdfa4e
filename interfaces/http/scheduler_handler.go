package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopost/usecase"
)

type ISchedulerHandler interface {
	Status(c *gin.Context)
	Run(c *gin.Context)
}

type SchedulerHandler struct {
	scheduler usecase.IScheduler
}

func NewSchedulerHandler(scheduler usecase.IScheduler) ISchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// Status handles GET /api/scheduler/status
func (h *SchedulerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// Run handles POST /api/scheduler/run and processes the due batch immediately
func (h *SchedulerHandler) Run(c *gin.Context) {
	if err := h.scheduler.ProcessDuePosts(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
