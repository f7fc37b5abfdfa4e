package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autopost/domain/dto"
	"autopost/infrastructure/logger"
	"autopost/interfaces/middleware"
	"autopost/usecase"
)

type IPostHandler interface {
	UploadExcel(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Retry(c *gin.Context)
	PublishNow(c *gin.Context)
	Dashboard(c *gin.Context)
	Upcoming(c *gin.Context)
	PublishedToday(c *gin.Context)
	RecentFailed(c *gin.Context)
	Logs(c *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
	scheduler   usecase.IScheduler
}

func NewPostHandler(postUsecase usecase.IPostUsecase, scheduler usecase.IScheduler) IPostHandler {
	return &PostHandler{postUsecase: postUsecase, scheduler: scheduler}
}

// UploadExcel handles POST /api/posts/upload-excel
func (h *PostHandler) UploadExcel(c *gin.Context) {
	var req dto.ExcelUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.postUsecase.UploadExcel(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	var req dto.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	posts, err := h.postUsecase.List(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// GetByID handles GET /api/posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := h.postUsecase.GetByID(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// Retry handles POST /api/posts/:id/retry
func (h *PostHandler) Retry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := h.postUsecase.Retry(c.Request.Context(), middleware.UserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PublishNow handles POST /api/posts/:id/publish-now
func (h *PostHandler) PublishNow(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	// Ownership check before touching the scheduler
	post, err := h.postUsecase.GetByID(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := h.scheduler.ProcessNow(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Dashboard handles GET /api/posts/dashboard
func (h *PostHandler) Dashboard(c *gin.Context) {
	res, err := h.postUsecase.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Upcoming handles GET /api/posts/upcoming
func (h *PostHandler) Upcoming(c *gin.Context) {
	posts, err := h.postUsecase.Upcoming(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// PublishedToday handles GET /api/posts/published-today
func (h *PostHandler) PublishedToday(c *gin.Context) {
	posts, err := h.postUsecase.PublishedToday(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// RecentFailed handles GET /api/posts/recent-failed
func (h *PostHandler) RecentFailed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	posts, err := h.postUsecase.RecentFailed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// Logs handles GET /api/logs
func (h *PostHandler) Logs(c *gin.Context) {
	postID, _ := strconv.ParseInt(c.Query("post_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.postUsecase.GetLogs(c.Request.Context(), middleware.UserID(c), postID, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}
