package segment

import (
	"context"
	"time"

	"github.com/orgball2608/directorflow-agent/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=segment.go -destination=mocks/mock.go

// Repository is the ledger of dispatched segments.
type Repository interface {
	Create(ctx context.Context, rec domain.SegmentRecord) error
	GetByRecordingID(ctx context.Context, recordingID string) ([]*domain.SegmentRecord, error)
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
