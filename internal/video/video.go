// Package video turns lyrics into a playable video.
//
// Only [Placeholder] exists today: it hands back a fixed sample clip so the
// rest of the pipeline and the web client can be exercised end to end.
package video

import (
	"context"
	"errors"
)

// Status values reported to API callers.
const (
	StatusReady  = "ready"
	StatusFailed = "failed"
)

// ErrNoURL is returned when a Placeholder has no URL configured.
var ErrNoURL = errors.New("video: placeholder url not configured")

// Renderer produces a video for a set of lyrics.
type Renderer interface {
	// Render returns the video URL and its status.
	Render(ctx context.Context, lyrics string) (url string, status string, err error)
}

// Placeholder returns the same URL for every request.
type Placeholder struct {
	URL string
}

// Render ignores lyrics and returns p.URL with StatusReady.
func (p Placeholder) Render(ctx context.Context, lyrics string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", StatusFailed, err
	}
	if p.URL == "" {
		return "", StatusFailed, ErrNoURL
	}
	return p.URL, StatusReady, nil
}
