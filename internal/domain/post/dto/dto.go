// Package dto contains request/response objects between delivery and usecase
package dto

// LinkRequest is an inbound chat message that may contain a post URL
type LinkRequest struct {
	ChatID    int64
	MessageID int
	Text      string
}

// CallbackRequest is an inbound button press
type CallbackRequest struct {
	CallbackID string
	ChatID     int64
	MessageID  int
	Data       string
}

// CallbackReply is what the delivery layer answers the press with
type CallbackReply struct {
	Text      string
	ShowAlert bool
}

// StartRequest is the /start command
type StartRequest struct {
	ChatID   int64
	Username string
}
