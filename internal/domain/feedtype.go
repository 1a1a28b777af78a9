package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FeedType discriminates the scope of an item query
type FeedType int

const (
	FeedTypeFeed FeedType = iota
	FeedTypeFolder
	FeedTypeStarred
	FeedTypeSubscriptions
)

// FeedTypeAll is an alias of FeedTypeSubscriptions
const FeedTypeAll = FeedTypeSubscriptions

var feedTypeNames = map[FeedType]string{
	FeedTypeFeed:          "feed",
	FeedTypeFolder:        "folder",
	FeedTypeStarred:       "starred",
	FeedTypeSubscriptions: "subscriptions",
}

func (t FeedType) String() string {
	if name, ok := feedTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FeedType(%d)", int(t))
}

// Valid reports whether t is a known feed type
func (t FeedType) Valid() bool {
	_, ok := feedTypeNames[t]
	return ok
}

// UsesRangeID reports whether queries of this type are scoped by an id
func (t FeedType) UsesRangeID() bool {
	return t == FeedTypeFeed || t == FeedTypeFolder
}

// ParseFeedType accepts the numeric wire value or a type name
func ParseFeedType(s string) (FeedType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := FeedType(n)
		if !t.Valid() {
			return 0, NewValidationError("type", fmt.Sprintf("unknown feed type %d", n))
		}
		return t, nil
	}
	if s == "all" {
		return FeedTypeAll, nil
	}
	for t, name := range feedTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, NewValidationError("type", fmt.Sprintf("unknown feed type %q", s))
}
