package domain

// Preference keys stored per user
const (
	SettingShowAll            = "showAll"
	SettingLastViewedFeedID   = "lastViewedFeedId"
	SettingLastViewedFeedType = "lastViewedFeedType"
)

// ShowAllRequest sets the showAll preference
type ShowAllRequest struct {
	ShowAll *bool `json:"showAll" binding:"required"`
}
