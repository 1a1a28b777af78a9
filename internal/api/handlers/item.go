package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

// ItemHandler handles the item synchronization API
type ItemHandler struct {
	items  service.ItemStateEngine
	bulk   service.BulkCoordinator
	logger *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(items service.ItemStateEngine, bulk service.BulkCoordinator, logger *logger.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		bulk:   bulk,
		logger: logger.WithComponent("item-handler"),
	}
}

// Index returns one page of items.
// Query: type, id, getRead (default true), batchSize (default 20), offset.
func (h *ItemHandler) Index(c *gin.Context) {
	p := NewQueryParamParser(c)
	filter := &domain.ItemListFilter{
		Type:      p.FeedType("type", domain.FeedTypeSubscriptions),
		RangeID:   p.Int64("id", 0),
		ShowAll:   p.Bool("getRead", true),
		BatchSize: p.Int("batchSize", domain.DefaultBatchSize),
		Offset:    p.Int64("offset", 0),
	}
	if err := p.Error(); err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.items.FindAll(c.Request.Context(), filter, middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// Updated returns every item changed since lastModified, read or not
func (h *ItemHandler) Updated(c *gin.Context) {
	p := NewQueryParamParser(c)
	filter := &domain.ItemUpdatedFilter{
		Type:         p.FeedType("type", domain.FeedTypeSubscriptions),
		RangeID:      p.Int64("id", 0),
		LastModified: p.Int64("lastModified", 0),
		ShowAll:      true,
	}
	if err := p.Error(); err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.items.FindAllNew(c.Request.Context(), filter, middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// Read marks one item read
func (h *ItemHandler) Read(c *gin.Context) {
	h.setRead(c, true)
}

// Unread marks one item unread
func (h *ItemHandler) Unread(c *gin.Context) {
	h.setRead(c, false)
}

func (h *ItemHandler) setRead(c *gin.Context, isRead bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	response.FromError(c, h.items.Read(c.Request.Context(), id, isRead, middleware.GetUserID(c)))
}

// Star stars the item addressed by feed id and guid hash
func (h *ItemHandler) Star(c *gin.Context) {
	h.setStarred(c, true)
}

// Unstar unstars the item addressed by feed id and guid hash
func (h *ItemHandler) Unstar(c *gin.Context) {
	h.setStarred(c, false)
}

func (h *ItemHandler) setStarred(c *gin.Context, isStarred bool) {
	feedID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.items.Star(c.Request.Context(), feedID, c.Param("guidHash"), isStarred, middleware.GetUserID(c))
	response.FromError(c, err)
}

// ReadAll marks every item up to the watermark read
func (h *ItemHandler) ReadAll(c *gin.Context) {
	var req domain.WatermarkRequest
	if !bindJSON(c, &req) {
		return
	}

	response.FromError(c, h.items.ReadAll(c.Request.Context(), req.NewestItemID, middleware.GetUserID(c)))
}

// ReadMultiple marks the listed items read. Unknown items are skipped.
func (h *ItemHandler) ReadMultiple(c *gin.Context) {
	h.readMultiple(c, true)
}

// UnreadMultiple marks the listed items unread. Unknown items are skipped.
func (h *ItemHandler) UnreadMultiple(c *gin.Context) {
	h.readMultiple(c, false)
}

func (h *ItemHandler) readMultiple(c *gin.Context, isRead bool) {
	var req domain.ItemIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	h.bulk.ReadMultiple(c.Request.Context(), req.Items, isRead, middleware.GetUserID(c))
	response.Empty(c)
}

// StarMultiple stars the listed items. Unknown items are skipped.
func (h *ItemHandler) StarMultiple(c *gin.Context) {
	h.starMultiple(c, true)
}

// UnstarMultiple unstars the listed items. Unknown items are skipped.
func (h *ItemHandler) UnstarMultiple(c *gin.Context) {
	h.starMultiple(c, false)
}

func (h *ItemHandler) starMultiple(c *gin.Context, isStarred bool) {
	var req domain.ItemRefsRequest
	if !bindJSON(c, &req) {
		return
	}

	h.bulk.StarMultiple(c.Request.Context(), req.Items, isStarred, middleware.GetUserID(c))
	response.Empty(c)
}
