package pendingauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// RedisRepository keeps the record under one key per scope and lets redis
// expire it.
type RedisRepository struct {
	client *goredis.Client
	prefix string
	logger logger.Logger
	now    func() time.Time
}

func NewRedisRepository(client *goredis.Client, logger logger.Logger) *RedisRepository {
	return &RedisRepository{
		client: client,
		prefix: "directorflow:pending",
		logger: logger.WithComponent("PendingAuthRepo"),
		now:    time.Now,
	}
}

var _ Repository = (*RedisRepository)(nil)

func (r *RedisRepository) key(scope string) string {
	return fmt.Sprintf("%s:%s", r.prefix, scope)
}

func (r *RedisRepository) Save(ctx context.Context, pending domain.PendingAuthorization) error {
	ttl := pending.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("pending authorization already expired")
	}
	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending authorization: %w", err)
	}
	if err := r.client.Set(ctx, r.key(pending.Scope), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending authorization: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, scope string) (*domain.PendingAuthorization, error) {
	b, err := r.client.Get(ctx, r.key(scope)).Bytes()
	return r.decode(b, err)
}

func (r *RedisRepository) Take(ctx context.Context, scope string) (*domain.PendingAuthorization, error) {
	b, err := r.client.GetDel(ctx, r.key(scope)).Bytes()
	return r.decode(b, err)
}

func (r *RedisRepository) Delete(ctx context.Context, scope string) error {
	if err := r.client.Del(ctx, r.key(scope)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending authorization: %w", err)
	}
	return nil
}

func (r *RedisRepository) decode(b []byte, err error) (*domain.PendingAuthorization, error) {
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read pending authorization: %w", err)
	}
	var pending domain.PendingAuthorization
	if err := json.Unmarshal(b, &pending); err != nil {
		r.logger.Warn("Discarding malformed pending authorization", "error", err)
		return nil, ErrNotFound
	}
	if pending.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &pending, nil
}
