package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

// FeedHandler handles feed requests
type FeedHandler struct {
	feeds  service.FeedLister
	items  service.ItemStateEngine
	logger *logger.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feeds service.FeedLister, items service.ItemStateEngine, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feeds:  feeds,
		items:  items,
		logger: logger.WithComponent("feed-handler"),
	}
}

// Index lists the user's feeds with the starred count and, when the user
// has items, the newest item id
func (h *FeedHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	feeds, starred, err := feedSummary(ctx, h.feeds, h.items, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	payload := gin.H{"feeds": feeds, "starredCount": starred}

	newest, err := h.items.GetNewestItemID(ctx, userID)
	switch {
	case err == nil:
		payload["newestItemId"] = newest
	case !errors.Is(err, domain.ErrNotFound):
		response.FromError(c, err)
		return
	}

	response.Success(c, payload)
}

// Read marks the feed's items read up to the watermark
func (h *FeedHandler) Read(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.WatermarkRequest
	if !bindJSON(c, &req) {
		return
	}

	response.FromError(c, h.items.ReadFeed(c.Request.Context(), id, req.NewestItemID, middleware.GetUserID(c)))
}

// feedSummary collects the feeds and starred count shown next to item lists
func feedSummary(ctx context.Context, feeds service.FeedLister, items service.ItemStateEngine, userID string) ([]*domain.Feed, int, error) {
	list, err := feeds.FindAll(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	starred, err := items.StarredCount(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return list, starred, nil
}
