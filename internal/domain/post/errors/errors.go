// Package errors contains domain-specific errors for the post domain
package errors

import (
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

// Domain errors for post resolution and interactive actions
var (
	ErrUnsupportedURL = pkgerrors.NewValidationError("unsupported link")
	ErrNoURL          = pkgerrors.NewValidationError("no URL in message")
	ErrEmptyPost      = pkgerrors.NewInternalError("post resolved without any media")
	ErrNoAudio        = pkgerrors.NewInternalError("no audio available for this post")
	ErrSessionExpired = pkgerrors.NewSessionExpiredError("post session expired")
	ErrFileLost       = pkgerrors.NewSessionExpiredError("cached media reference lost")
)
