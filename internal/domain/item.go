package domain

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// DefaultBatchSize is used when a client asks for a batch size of zero
const DefaultBatchSize = 20

// Item is a single piece of content from a feed together with its read and
// starred state
type Item struct {
	ID           int64     `json:"id" db:"id"`
	FeedID       int64     `json:"feedId" db:"feed_id"`
	GUID         string    `json:"guid" db:"guid"`
	GUIDHash     string    `json:"guidHash" db:"guid_hash"`
	URL          string    `json:"url" db:"url"`
	Title        string    `json:"title" db:"title"`
	Author       string    `json:"author" db:"author"`
	Body         string    `json:"body" db:"body"`
	PubDate      time.Time `json:"pubDate" db:"pub_date"`
	LastModified int64     `json:"lastModified" db:"last_modified"`
	Unread       bool      `json:"unread" db:"unread"`
	Starred      bool      `json:"starred" db:"starred"`
}

// HashGUID returns the client-addressable fingerprint of an item guid
func HashGUID(guid string) string {
	sum := md5.Sum([]byte(guid))
	return hex.EncodeToString(sum[:])
}

// ItemRef addresses an item by content fingerprint instead of numeric id
type ItemRef struct {
	FeedID   int64  `json:"feedId" binding:"required"`
	GUIDHash string `json:"guidHash" binding:"required"`
}

// ItemListFilter selects one page of items
type ItemListFilter struct {
	Type      FeedType
	RangeID   int64
	Offset    int64 // items strictly older than this id, 0 starts at the newest
	BatchSize int   // 0 means DefaultBatchSize
	ShowAll   bool
}

// ItemUpdatedFilter selects every item modified after a client watermark
type ItemUpdatedFilter struct {
	Type         FeedType
	RangeID      int64
	LastModified int64
	ShowAll      bool
}

// ItemQuery is the store-level predicate built by the item service
type ItemQuery struct {
	UserID       string
	Type         FeedType
	RangeID      int64
	BeforeID     int64 // 0 disables
	ModifiedFrom int64 // exclusive lower bound on LastModified, 0 disables
	Limit        int   // 0 means unbounded
	UnreadOnly   bool
}

// ReadScope selects the items marked read by a watermark operation
type ReadScope struct {
	UserID   string
	Type     FeedType
	RangeID  int64
	NewestID int64
}

// ItemIDsRequest is the body of the bulk read endpoints
type ItemIDsRequest struct {
	Items []int64 `json:"items" binding:"required"`
}

// ItemRefsRequest is the body of the bulk star endpoints
type ItemRefsRequest struct {
	Items []ItemRef `json:"items" binding:"required,dive"`
}

// WatermarkRequest carries the newest item id a client has seen
type WatermarkRequest struct {
	NewestItemID int64 `json:"newestItemId" binding:"min=0"`
}
