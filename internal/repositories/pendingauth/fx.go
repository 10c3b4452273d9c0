package pendingauth

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"github.com/orgball2608/directorflow-agent/pkg/redis"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Pool   *pgxpool.Pool
	Config *config.Config
	Logger logger.Logger
}

// NewRepository picks the store named by PENDING_STORE. The redis client is
// only created when it is selected.
func NewRepository(opts Opts) (Repository, error) {
	switch opts.Config.Pending.Store {
	case "", "postgres":
		return NewPgxRepository(opts.Pool, opts.Logger), nil
	case "redis":
		client := redis.New(redis.Opts{LC: opts.LC, Logger: opts.Logger, Config: opts.Config})
		return NewRedisRepository(client, opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown pending store %q", opts.Config.Pending.Store)
	}
}

var Module = fx.Provide(NewRepository)
