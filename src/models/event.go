package models

// NotificationEvent is one raw notification forwarded by the device
// bridge. ID is assigned at ingestion; PostedAt is epoch millis.
type NotificationEvent struct {
	ID        string `json:"id"`
	SourceApp string `json:"source_app"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	BigText   string `json:"big_text"`
	PostedAt  int64  `json:"posted_at"`
}

// Body returns the expanded notification text, falling back to the short
// text when the source app did not populate it.
func (e NotificationEvent) Body() string {
	if e.BigText != "" {
		return e.BigText
	}
	return e.Text
}
