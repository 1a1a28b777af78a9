package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

// FolderHandler handles folder requests
type FolderHandler struct {
	folders service.FolderManager
	items   service.ItemStateEngine
	logger  *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders service.FolderManager, items service.ItemStateEngine, logger *logger.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		items:   items,
		logger:  logger.WithComponent("folder-handler"),
	}
}

// Index lists the user's folders
func (h *FolderHandler) Index(c *gin.Context) {
	folders, err := h.folders.FindAll(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"folders": folders})
}

// Create creates a folder after purging the user's soft-deleted folders
func (h *FolderHandler) Create(c *gin.Context) {
	var req domain.FolderCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if err := h.folders.PurgeDeleted(ctx, userID, false); err != nil {
		response.FromError(c, err)
		return
	}

	folder, err := h.folders.Create(ctx, req.Name, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"folders": []*domain.Folder{folder}})
}

// Delete soft-deletes a folder
func (h *FolderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	response.FromError(c, h.folders.Delete(c.Request.Context(), id, middleware.GetUserID(c)))
}

// Update renames a folder
func (h *FolderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.FolderRenameRequest
	if !bindJSON(c, &req) {
		return
	}

	response.FromError(c, h.folders.Rename(c.Request.Context(), id, req.Name, middleware.GetUserID(c)))
}

// Read marks the folder's items read up to the watermark
func (h *FolderHandler) Read(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.WatermarkRequest
	if !bindJSON(c, &req) {
		return
	}

	response.FromError(c, h.items.ReadFolder(c.Request.Context(), id, req.NewestItemID, middleware.GetUserID(c)))
}

// Open expands a folder
func (h *FolderHandler) Open(c *gin.Context) {
	h.setOpened(c, true)
}

// Collapse collapses a folder
func (h *FolderHandler) Collapse(c *gin.Context) {
	h.setOpened(c, false)
}

func (h *FolderHandler) setOpened(c *gin.Context, opened bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	response.FromError(c, h.folders.Open(c.Request.Context(), id, opened, middleware.GetUserID(c)))
}

// Restore undoes a folder delete
func (h *FolderHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	folder, err := h.folders.Restore(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"folders": []*domain.Folder{folder}})
}
