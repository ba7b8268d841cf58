// Package services contains server-side business logic on top of the
// repositories: profile sync with merge semantics, meal logging, weight
// history and nutrition aggregation.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/server/images"
)

// WeightRecorder appends a weight history point. ProfileService calls it for
// every profile write that changes the stored weight.
type WeightRecorder interface {
	Record(ctx context.Context, userID string, weight float64, at time.Time) error
}

// ImageUploader moves image payloads to object storage: either an inline
// payload uploaded by the server, or a presigned PUT the client uploads to
// itself.
type ImageUploader interface {
	UploadInline(ctx context.Context, prefix, dataURL string) (string, error)
	PresignedPutURL(ctx context.Context, prefix string) (*images.Upload, error)
}

// bounded limits a single storage call to d. A non-positive d leaves ctx
// unbounded.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
