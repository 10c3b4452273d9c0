package backend

import (
	"context"
	"fmt"

	"github.com/orgball2608/directorflow-agent/internal/domain"
)

type ChunkUpload struct {
	Filename   string
	Payload    []byte
	UserID     string
	AutoUpload bool
	Lite       bool
}

type AuthInitRequest struct {
	UserID       string          `json:"user_id"`
	Platform     domain.Platform `json:"platform"`
	ClientID     string          `json:"client_id"`
	ClientSecret string          `json:"client_secret"`
}

type AuthCallbackRequest struct {
	UserID   string          `json:"user_id"`
	Code     string          `json:"code"`
	Platform domain.Platform `json:"platform"`
}

type PublishRequest struct {
	UserID        string
	ClipID        string
	VideoFilename string
	Caption       string
	Platforms     []domain.Platform
}

// APIError is a rejection reported inside a backend payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
	}
	return "backend rejected request: " + e.Message
}

//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock.go

type Client interface {
	Logs(ctx context.Context) ([]string, error)
	Gallery(ctx context.Context, userID string) ([]domain.GalleryClip, error)
	UploadChunk(ctx context.Context, chunk ChunkUpload) error

	AuthInit(ctx context.Context, req AuthInitRequest) (string, error)
	AuthCallback(ctx context.Context, req AuthCallbackRequest) error
	AuthDisconnect(ctx context.Context, userID string, platform domain.Platform) error
	AuthStatus(ctx context.Context, userID string) ([]domain.Platform, error)

	Publish(ctx context.Context, req PublishRequest) (map[domain.Platform]domain.PublishResult, error)
}
