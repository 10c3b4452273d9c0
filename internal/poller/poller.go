package poller

import (
	"context"

	"github.com/orgball2608/directorflow-agent/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=poller.go -destination=mocks/mock.go

// GalleryListener receives clips that appeared since the previous poll.
type GalleryListener func(clips []domain.GalleryClip)

type Client interface {
	Start(ctx context.Context) error
	PollLogs(ctx context.Context) error
	PollGallery(ctx context.Context) error
	Gallery() []domain.GalleryClip
	Subscribe(fn GalleryListener) (unsubscribe func())
}
