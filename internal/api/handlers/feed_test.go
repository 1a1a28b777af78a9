package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

func newFeedEngine(feeds *fakeFeeds, items *fakeItems) http.Handler {
	h := NewFeedHandler(feeds, items, testLogger())

	r := newTestEngine()
	r.GET("/feeds", h.Index)
	r.PUT("/feeds/:id/read", h.Read)
	return r
}

func TestFeedHandler_Index(t *testing.T) {
	feeds := &fakeFeeds{feeds: []*domain.Feed{{ID: 1, UnreadCount: 3}}}
	items := &fakeItems{newest: 42, starred: 5}
	r := newFeedEngine(feeds, items)

	w := doRequest(t, r, http.MethodGet, "/feeds", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if string(body["newestItemId"]) != "42" {
		t.Errorf("Expected newestItemId 42, got %s", body["newestItemId"])
	}
	if string(body["starredCount"]) != "5" {
		t.Errorf("Expected starredCount 5, got %s", body["starredCount"])
	}
}

func TestFeedHandler_IndexWithoutItems(t *testing.T) {
	items := &fakeItems{newestErr: domain.NewNotFoundError("item", nil)}
	r := newFeedEngine(&fakeFeeds{}, items)

	w := doRequest(t, r, http.MethodGet, "/feeds", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if _, ok := decodeBody(t, w)["newestItemId"]; ok {
		t.Error("Expected newestItemId to be omitted")
	}

	items.newestErr = errors.New("disk I/O error")
	if w := doRequest(t, r, http.MethodGet, "/feeds", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestFeedHandler_Read(t *testing.T) {
	items := &fakeItems{}
	r := newFeedEngine(&fakeFeeds{}, items)

	if w := doRequest(t, r, http.MethodPut, "/feeds/2/read", map[string]int64{"newestItemId": 11}); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if items.watermarkFor != "feed" || items.rangeID != 2 || items.watermark != 11 {
		t.Errorf("Unexpected read arguments %s %d %d", items.watermarkFor, items.rangeID, items.watermark)
	}

	items.err = domain.NewNotFoundError("feed", 2)
	if w := doRequest(t, r, http.MethodPut, "/feeds/2/read", map[string]int64{"newestItemId": 11}); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
