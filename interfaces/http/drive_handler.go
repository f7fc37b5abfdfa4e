package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopost/domain/repository"
	"autopost/interfaces/middleware"
)

type IDriveHandler interface {
	ListFiles(c *gin.Context)
	GetFolderInfo(c *gin.Context)
	FindFile(c *gin.Context)
}

type DriveHandler struct {
	files repository.IFileLocator
}

func NewDriveHandler(files repository.IFileLocator) IDriveHandler {
	return &DriveHandler{files: files}
}

// ListFiles handles GET /api/drive/files
func (h *DriveHandler) ListFiles(c *gin.Context) {
	files, err := h.files.ListFiles(c.Request.Context(), middleware.UserID(c), c.Query("folder_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": files})
}

// GetFolderInfo handles GET /api/drive/folders/:folderId
func (h *DriveHandler) GetFolderInfo(c *gin.Context) {
	folder, err := h.files.GetFolderInfo(c.Request.Context(), middleware.UserID(c), c.Param("folderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, folder)
}

// FindFile handles GET /api/drive/find
func (h *DriveHandler) FindFile(c *gin.Context) {
	fileName := c.Query("file_name")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_name is required"})
		return
	}

	file, err := h.files.FindFileByName(c.Request.Context(), middleware.UserID(c), fileName, c.Query("folder_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.JSON(http.StatusOK, file)
}
