package pendingauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/repositories"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
	now    func() time.Time
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("PendingAuthRepo"),
		now:    time.Now,
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Save(ctx context.Context, pending domain.PendingAuthorization) error {
	query, args, err := repositories.SqBuilder.
		Insert("pending_authorizations").
		Columns("scope", "platform", "created_at", "expires_at").
		Values(pending.Scope, string(pending.Platform), pending.CreatedAt, pending.ExpiresAt).
		Suffix("ON CONFLICT (scope) DO UPDATE SET platform = EXCLUDED.platform, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save pending authorization: %w", err)
	}
	return nil
}

func (r *PgxRepository) Get(ctx context.Context, scope string) (*domain.PendingAuthorization, error) {
	query, args, err := repositories.SqBuilder.
		Select("scope", "platform", "created_at", "expires_at").
		From("pending_authorizations").
		Where(sq.Eq{"scope": scope}).
		Where(sq.Gt{"expires_at": r.now()}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return r.scanOne(ctx, query, args)
}

func (r *PgxRepository) Take(ctx context.Context, scope string) (*domain.PendingAuthorization, error) {
	query, args, err := repositories.SqBuilder.
		Delete("pending_authorizations").
		Where(sq.Eq{"scope": scope}).
		Suffix("RETURNING scope, platform, created_at, expires_at").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	pending, err := r.scanOne(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if pending.Expired(r.now()) {
		r.logger.Info("Dropped expired pending authorization", "platform", pending.Platform)
		return nil, ErrNotFound
	}
	return pending, nil
}

func (r *PgxRepository) Delete(ctx context.Context, scope string) error {
	query, args, err := repositories.SqBuilder.
		Delete("pending_authorizations").
		Where(sq.Eq{"scope": scope}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete pending authorization: %w", err)
	}
	return nil
}

func (r *PgxRepository) scanOne(ctx context.Context, query string, args []interface{}) (*domain.PendingAuthorization, error) {
	var (
		pending  domain.PendingAuthorization
		platform string
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&pending.Scope,
		&platform,
		&pending.CreatedAt,
		&pending.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read pending authorization: %w", err)
	}
	pending.Platform = domain.Platform(platform)
	return &pending, nil
}
