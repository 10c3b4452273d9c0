package segment

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/repositories"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("SegmentRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, rec domain.SegmentRecord) error {
	query, args, err := repositories.SqBuilder.
		Insert("segment_uploads").
		Columns("recording_id", "segment_index", "owner_id", "mode", "bytes", "status", "error").
		Values(rec.RecordingID, rec.Index, rec.OwnerID, rec.Mode, rec.Bytes, string(rec.Status), rec.Error).
		Suffix("ON CONFLICT (recording_id, segment_index) DO UPDATE SET status = EXCLUDED.status, error = EXCLUDED.error").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record segment %d: %w", rec.Index, err)
	}
	return nil
}

func (r *PgxRepository) GetByRecordingID(ctx context.Context, recordingID string) ([]*domain.SegmentRecord, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "recording_id", "segment_index", "owner_id", "mode", "bytes", "status", "error", "created_at").
		From("segment_uploads").
		Where(sq.Eq{"recording_id": recordingID}).
		OrderBy("segment_index ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var records []*domain.SegmentRecord
	for rows.Next() {
		var (
			rec    domain.SegmentRecord
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.RecordingID, &rec.Index, &rec.OwnerID, &rec.Mode, &rec.Bytes, &status, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment row: %w", err)
		}
		rec.Status = domain.SegmentStatus(status)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating segment rows: %w", err)
	}

	return records, nil
}

func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("segment_uploads").
		Where(sq.Lt{"created_at": time.Now().Add(-olderThan)}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up segments: %w", err)
	}
	return result.RowsAffected(), nil
}
