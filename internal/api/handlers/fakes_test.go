package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

const testUser = "alice"

// fakeFolders records calls and returns the configured results
type fakeFolders struct {
	calls     []string
	folders   []*domain.Folder
	folder    *domain.Folder
	err       error
	createErr error
	lastID    int64
	lastName  string
	lastOpen  bool
	lastFinal bool
}

func (f *fakeFolders) FindAll(ctx context.Context, userID string) ([]*domain.Folder, error) {
	f.calls = append(f.calls, "findAll")
	return f.folders, f.err
}

func (f *fakeFolders) Create(ctx context.Context, name, userID string) (*domain.Folder, error) {
	f.calls = append(f.calls, "create")
	f.lastName = name
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.folder, nil
}

func (f *fakeFolders) Delete(ctx context.Context, folderID int64, userID string) error {
	f.calls = append(f.calls, "delete")
	f.lastID = folderID
	return f.err
}

func (f *fakeFolders) Rename(ctx context.Context, folderID int64, name, userID string) error {
	f.calls = append(f.calls, "rename")
	f.lastID, f.lastName = folderID, name
	return f.err
}

func (f *fakeFolders) PurgeDeleted(ctx context.Context, userID string, finalPurge bool) error {
	f.calls = append(f.calls, "purgeDeleted")
	f.lastFinal = finalPurge
	return nil
}

func (f *fakeFolders) Open(ctx context.Context, folderID int64, opened bool, userID string) error {
	f.calls = append(f.calls, "open")
	f.lastID, f.lastOpen = folderID, opened
	return f.err
}

func (f *fakeFolders) Restore(ctx context.Context, folderID int64, userID string) (*domain.Folder, error) {
	f.calls = append(f.calls, "restore")
	f.lastID = folderID
	return f.folder, f.err
}

// fakeItems records the arguments of the last call of each method
type fakeItems struct {
	items        []*domain.Item
	newest       int64
	newestErr    error
	starred      int
	err          error
	listFilter   *domain.ItemListFilter
	newFilter    *domain.ItemUpdatedFilter
	readID       int64
	readState    bool
	starFeedID   int64
	starHash     string
	starState    bool
	watermark    int64
	watermarkFor string
	rangeID      int64
	userID       string
}

func (f *fakeItems) FindAll(ctx context.Context, filter *domain.ItemListFilter, userID string) ([]*domain.Item, error) {
	f.listFilter, f.userID = filter, userID
	return f.items, f.err
}

func (f *fakeItems) FindAllNew(ctx context.Context, filter *domain.ItemUpdatedFilter, userID string) ([]*domain.Item, error) {
	f.newFilter, f.userID = filter, userID
	return f.items, f.err
}

func (f *fakeItems) GetNewestItemID(ctx context.Context, userID string) (int64, error) {
	return f.newest, f.newestErr
}

func (f *fakeItems) StarredCount(ctx context.Context, userID string) (int, error) {
	return f.starred, nil
}

func (f *fakeItems) Read(ctx context.Context, itemID int64, isRead bool, userID string) error {
	f.readID, f.readState, f.userID = itemID, isRead, userID
	return f.err
}

func (f *fakeItems) ReadAll(ctx context.Context, newestItemID int64, userID string) error {
	f.watermark, f.watermarkFor = newestItemID, "all"
	return f.err
}

func (f *fakeItems) ReadFeed(ctx context.Context, feedID, newestItemID int64, userID string) error {
	f.watermark, f.watermarkFor, f.rangeID = newestItemID, "feed", feedID
	return f.err
}

func (f *fakeItems) ReadFolder(ctx context.Context, folderID, newestItemID int64, userID string) error {
	f.watermark, f.watermarkFor, f.rangeID = newestItemID, "folder", folderID
	return f.err
}

func (f *fakeItems) Star(ctx context.Context, feedID int64, guidHash string, isStarred bool, userID string) error {
	f.starFeedID, f.starHash, f.starState = feedID, guidHash, isStarred
	return f.err
}

type fakeBulk struct {
	ids   []int64
	refs  []domain.ItemRef
	state bool
}

func (f *fakeBulk) ReadMultiple(ctx context.Context, itemIDs []int64, isRead bool, userID string) {
	f.ids, f.state = itemIDs, isRead
}

func (f *fakeBulk) StarMultiple(ctx context.Context, refs []domain.ItemRef, isStarred bool, userID string) {
	f.refs, f.state = refs, isStarred
}

type fakeFeeds struct {
	feeds []*domain.Feed
}

func (f *fakeFeeds) FindAll(ctx context.Context, userID string) ([]*domain.Feed, error) {
	return f.feeds, nil
}

type fakeSettings struct {
	showAll      bool
	viewedType   domain.FeedType
	viewedID     int64
	viewedStored bool
}

func (f *fakeSettings) ShowAll(ctx context.Context, userID string) (bool, error) {
	return f.showAll, nil
}

func (f *fakeSettings) SetShowAll(ctx context.Context, userID string, showAll bool) error {
	f.showAll = showAll
	return nil
}

func (f *fakeSettings) LastViewed(ctx context.Context, userID string) (domain.FeedType, int64, error) {
	return f.viewedType, f.viewedID, nil
}

func (f *fakeSettings) SetLastViewed(ctx context.Context, userID string, feedType domain.FeedType, id int64) error {
	f.viewedType, f.viewedID, f.viewedStored = feedType, id, true
	return nil
}

// newTestEngine returns an engine whose requests act as testUser
func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetUserID(c, testUser)
		c.Next()
	})
	return r
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
	return body
}
