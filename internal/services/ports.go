package services

import (
	"context"
	"io"
)

// IdentityCache is the short-TTL key-value store consulted before the user
// directory. Get returns (nil, nil) on a miss. The handle is opened once at
// process start and injected here.
type IdentityCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, key string) error
}

// Transformation is the parameter bag passed verbatim to the image host.
type Transformation struct {
	Width   int    `json:"width" validate:"omitempty,gt=0"`
	Height  int    `json:"height" validate:"omitempty,gt=0"`
	Crop    string `json:"crop"`
	Effect  string `json:"effect"`
	Angle   int    `json:"angle"`
	Gravity string `json:"gravity"`
	Radius  int    `json:"radius" validate:"omitempty,gte=0"`
}

// ImageProvider is the remote image host the photo flows depend on. Failures
// are not retried here; they surface as upstream errors for the HTTP layer.
type ImageProvider interface {
	Upload(ctx context.Context, content io.Reader) (url string, publicID string, err error)
	Transform(ctx context.Context, publicID string, t Transformation) (url string, err error)
	Delete(ctx context.Context, publicID string) error
}
