package pendingauth

import (
	"context"
	"fmt"

	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
)

// ErrNotFound matches errors.IsNotFound.
var ErrNotFound = fmt.Errorf("pending authorization %w", errors.ErrNotFound)

//go:generate go run go.uber.org/mock/mockgen -source=pendingauth.go -destination=mocks/mock.go

// Repository persists at most one pending authorization per scope.
type Repository interface {
	// Save overwrites any pending authorization of the same scope.
	Save(ctx context.Context, pending domain.PendingAuthorization) error
	// Get returns ErrNotFound when nothing is pending or the record expired.
	Get(ctx context.Context, scope string) (*domain.PendingAuthorization, error)
	// Take atomically reads and deletes the record.
	Take(ctx context.Context, scope string) (*domain.PendingAuthorization, error)
	Delete(ctx context.Context, scope string) error
}
