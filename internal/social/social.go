package social

import (
	"context"

	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/session"
)

//go:generate go run go.uber.org/mock/mockgen -source=social.go -destination=mocks/mock.go

// Outcome is the result of an asynchronously completed authorization.
type Outcome struct {
	Platform domain.Platform
	Err      error
}

type Listener func(Outcome)

// Manager drives the per-platform OAuth handshake and keeps the connected set.
type Manager interface {
	InitConnection(ctx context.Context, platform domain.Platform, clientID, clientSecret string) (string, error)
	CompleteConnection(ctx context.Context, code string) (domain.Platform, error)
	Deliver(code string)
	Cancel(ctx context.Context) error
	Run(ctx context.Context)
	Disconnect(ctx context.Context, platform domain.Platform) error
	RefreshConnections(ctx context.Context) ([]domain.Platform, error)
	Connected(ctx context.Context) ([]domain.Platform, error)
	State(platform domain.Platform) domain.ConnectionState
	Subscribe(fn Listener) (unsubscribe func())
}

// Session is the user identity the manager acts for.
type Session interface {
	UserID() string
	Authenticated() bool
	Wait(ctx context.Context) (session.User, error)
}
