package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/repository/badger"
	"github.com/amiyamandal-dev/newsreader/internal/repository/sqlstore"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

type testEnv struct {
	DB       *sqlstore.DB
	Folders  *FolderService
	Items    *ItemService
	Feeds    *FeedService
	Bulk     *BulkService
	Settings *SettingsService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return newTestEnv(t, sqlstore.Options{
		Driver:       sqlstore.DriverSQLite,
		DSN:          fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
}

// setupFileTestEnv backs the services with an on-disk database so that
// concurrent callers really run on separate connections.
func setupFileTestEnv(t *testing.T, conns int) *testEnv {
	t.Helper()

	return newTestEnv(t, sqlstore.Options{
		Driver:       sqlstore.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "news.db"),
		MaxOpenConns: conns,
		MaxIdleConns: conns,
	})
}

func newTestEnv(t *testing.T, opts sqlstore.Options) *testEnv {
	t.Helper()

	db, err := sqlstore.New(opts)
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cacheDB, err := badger.New("")
	if err != nil {
		t.Fatalf("Failed to init badger: %v", err)
	}
	t.Cleanup(func() { cacheDB.Close() })
	stats := badger.NewStatsCache(cacheDB, time.Minute)

	log := logger.NewNop()

	folderRepo := sqlstore.NewFolderRepo(db)
	feedRepo := sqlstore.NewFeedRepo(db)
	itemRepo := sqlstore.NewItemRepo(db)

	items := NewItemService(itemRepo, feedRepo, folderRepo, stats, ItemOptions{MaxBatchSize: 100}, log)

	return &testEnv{
		DB:       db,
		Folders:  NewFolderService(folderRepo, db, stats, log),
		Items:    items,
		Feeds:    NewFeedService(feedRepo, db, log),
		Bulk:     NewBulkService(items, log),
		Settings: NewSettingsService(sqlstore.NewSettingsRepo(db)),
	}
}

func (e *testEnv) addFeed(t *testing.T, userID string, folderID *int64, url string) *domain.Feed {
	t.Helper()

	feed, _, err := e.Feeds.Subscribe(context.Background(), &domain.Feed{UserID: userID, URL: url, Title: url, FolderID: folderID})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	return feed
}

var guidSeq atomic.Int64

func (e *testEnv) addItems(t *testing.T, userID string, feedID int64, n int) []*domain.Item {
	t.Helper()

	items := make([]*domain.Item, 0, n)
	for i := 0; i < n; i++ {
		item := &domain.Item{
			FeedID:  feedID,
			GUID:    fmt.Sprintf("urn:item:%d:%d", feedID, guidSeq.Add(1)),
			Title:   fmt.Sprintf("item %d", i),
			PubDate: time.Now(),
		}
		created, err := e.Items.AddItem(context.Background(), userID, item)
		if err != nil {
			t.Fatalf("Failed to add item: %v", err)
		}
		if !created {
			t.Fatalf("Expected item %s to be created", item.GUID)
		}
		items = append(items, item)
	}
	return items
}

func setupLogger() *logger.Logger {
	return logger.NewNop()
}
