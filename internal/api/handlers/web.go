package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

// WebHandler serves the combined responses of the web client, which stores
// its view preferences on the server
type WebHandler struct {
	items    service.ItemStateEngine
	feeds    service.FeedLister
	settings service.Settings
	logger   *logger.Logger
}

// NewWebHandler creates a new web handler
func NewWebHandler(
	items service.ItemStateEngine,
	feeds service.FeedLister,
	settings service.Settings,
	logger *logger.Logger,
) *WebHandler {
	return &WebHandler{
		items:    items,
		feeds:    feeds,
		settings: settings,
		logger:   logger.WithComponent("web-handler"),
	}
}

// Index returns a page of items for the requested feed and remembers it as
// the last viewed one. The first page also carries the feeds, the newest
// item id and the starred count. Users without items get an empty object.
func (h *WebHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	p := NewQueryParamParser(c)
	feedType := p.FeedType("type", domain.FeedTypeSubscriptions)
	rangeID := p.Int64("id", 0)
	offset := p.Int64("offset", 0)
	batchSize := p.Int("limit", domain.DefaultBatchSize)
	if err := p.Error(); err != nil {
		response.FromError(c, err)
		return
	}

	showAll, err := h.settings.ShowAll(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.settings.SetLastViewed(ctx, userID, feedType, rangeID); err != nil {
		response.FromError(c, err)
		return
	}

	payload := gin.H{}
	if offset == 0 {
		var ok bool
		if payload, ok = h.summary(c, userID); !ok {
			return
		}
	}

	items, err := h.items.FindAll(ctx, &domain.ItemListFilter{
		Type:      feedType,
		RangeID:   rangeID,
		Offset:    offset,
		BatchSize: batchSize,
		ShowAll:   showAll,
	}, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	payload["items"] = items
	response.Success(c, payload)
}

// NewItems returns the items changed since lastModified together with the
// refreshed feeds, newest item id and starred count
func (h *WebHandler) NewItems(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	p := NewQueryParamParser(c)
	filter := &domain.ItemUpdatedFilter{
		Type:         p.FeedType("type", domain.FeedTypeSubscriptions),
		RangeID:      p.Int64("id", 0),
		LastModified: p.Int64("lastModified", 0),
	}
	if err := p.Error(); err != nil {
		response.FromError(c, err)
		return
	}

	showAll, err := h.settings.ShowAll(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.ShowAll = showAll

	payload, ok := h.summary(c, userID)
	if !ok {
		return
	}

	items, err := h.items.FindAllNew(ctx, filter, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	payload["items"] = items
	response.Success(c, payload)
}

// summary builds the newestItemId, feeds and starred part of a combined
// response. When the user has no items it writes an empty object and
// returns false.
func (h *WebHandler) summary(c *gin.Context, userID string) (gin.H, bool) {
	ctx := c.Request.Context()

	newest, err := h.items.GetNewestItemID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		response.Empty(c)
		return nil, false
	}
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}

	feeds, starred, err := feedSummary(ctx, h.feeds, h.items, userID)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}

	return gin.H{"newestItemId": newest, "feeds": feeds, "starred": starred}, true
}

// ReadAll marks every item up to the watermark read and returns the feeds
// with their new unread counts
func (h *WebHandler) ReadAll(c *gin.Context) {
	var req domain.WatermarkRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if err := h.items.ReadAll(ctx, req.NewestItemID, userID); err != nil {
		response.FromError(c, err)
		return
	}

	feeds, err := h.feeds.FindAll(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"feeds": feeds})
}

// SetShowAll stores whether read items are listed
func (h *WebHandler) SetShowAll(c *gin.Context) {
	var req domain.ShowAllRequest
	if !bindJSON(c, &req) {
		return
	}

	response.FromError(c, h.settings.SetShowAll(c.Request.Context(), middleware.GetUserID(c), *req.ShowAll))
}
