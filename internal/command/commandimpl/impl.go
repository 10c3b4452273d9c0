package commandimpl

import (
	"sync"
	"time"

	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/command"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/poller"
	"github.com/orgball2608/directorflow-agent/internal/publish"
	"github.com/orgball2608/directorflow-agent/internal/ratelimit"
	"github.com/orgball2608/directorflow-agent/internal/repositories/segment"
	"github.com/orgball2608/directorflow-agent/internal/session"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/internal/telegram"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram  telegram.Client
	Capture   capture.Engine
	Social    social.Manager
	Publisher *publish.Dispatcher
	Poller    poller.Client
	Session   *session.Provider
	Feed      *feed.Feed
	Ledger    segment.Repository
	Limiter   ratelimit.Limiter
	Logger    logger.Logger
	Config    *config.Config
}

type CommandImpl struct {
	Telegram  telegram.Client
	Capture   capture.Engine
	Social    social.Manager
	Publisher *publish.Dispatcher
	Poller    poller.Client
	Session   *session.Provider
	Feed      *feed.Feed
	Ledger    segment.Repository
	Limiter   ratelimit.Limiter
	Logger    logger.Logger
	Config    *config.Config

	mu            sync.Mutex
	dialogs       map[int]*publishDialog
	lastRecording string
	now           func() time.Time
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:  opts.Telegram,
		Capture:   opts.Capture,
		Social:    opts.Social,
		Publisher: opts.Publisher,
		Poller:    opts.Poller,
		Session:   opts.Session,
		Feed:      opts.Feed,
		Ledger:    opts.Ledger,
		Limiter:   opts.Limiter,
		Logger:    opts.Logger.WithComponent("Command"),
		Config:    opts.Config,
		dialogs:   make(map[int]*publishDialog),
		now:       time.Now,
	}
}

var _ command.Client = (*CommandImpl)(nil)

var Module = fx.Options(
	fx.Provide(ratelimit.NewCommandLimiter),
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(command.Client)),
		),
	),
)
