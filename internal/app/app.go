package app

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/backend/backendimpl"
	"github.com/orgball2608/directorflow-agent/internal/callback"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/capture/captureimpl"
	"github.com/orgball2608/directorflow-agent/internal/command"
	"github.com/orgball2608/directorflow-agent/internal/command/commandimpl"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/migrations"
	"github.com/orgball2608/directorflow-agent/internal/poller"
	"github.com/orgball2608/directorflow-agent/internal/poller/pollerimpl"
	"github.com/orgball2608/directorflow-agent/internal/publish"
	repositories "github.com/orgball2608/directorflow-agent/internal/repositories/fx"
	"github.com/orgball2608/directorflow-agent/internal/session"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/internal/social/socialimpl"
	"github.com/orgball2608/directorflow-agent/internal/telegram"
	"github.com/orgball2608/directorflow-agent/internal/telegram/telegramimpl"
	"github.com/orgball2608/directorflow-agent/internal/upload"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"github.com/orgball2608/directorflow-agent/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

const ledgerRetention = 7 * 24 * time.Hour

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		session.New,
		func() *feed.Feed { return feed.New(0) },
		fx.Annotate(
			backendimpl.New,
			fx.As(new(backend.Client)),
		),
	),
	repositories.Module,
	upload.Module,
	captureimpl.Module,
	pollerimpl.Module,
	socialimpl.Module,
	publish.Module,
	telegramimpl.Module,
	commandimpl.Module,
	callback.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config, log logger.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return err
	}
	log.Info("Database migrations applied")
	return nil
}

type runOpts struct {
	fx.In
	LC fx.Lifecycle

	Config   *config.Config
	Logger   logger.Logger
	Session  *session.Provider
	Telegram telegram.Client
	Capture  capture.Engine
	Poller   poller.Client
	Social   social.Manager
	Command  command.Client
	Uploader *upload.Uploader
}

func run(opts runOpts) {
	log := opts.Logger
	ctx, cancel := context.WithCancel(context.Background())

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			opts.Session.Restore(ctx, opts.Config.Session.Token)

			go opts.Social.Run(ctx)
			opts.Command.StartNotifications(ctx)

			if err := opts.Poller.Start(ctx); err != nil {
				log.Error("Poller start error", "error", err)
				_ = opts.Telegram.SendMessageToUser(ctx, "Poller start error: "+err.Error())
			}

			if err := opts.Uploader.ScheduleLedgerCleanup(ctx, ledgerRetention); err != nil {
				log.Error("Ledger cleanup schedule error", "error", err)
			}

			go func() {
				for {
					if err := opts.Command.HandleCommand(ctx); err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Error("Command error", "error", err)
						_ = opts.Telegram.SendMessageToUser(ctx, "Command error: "+err.Error())
						time.Sleep(time.Second)
					}
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			opts.Capture.DeactivateCamera()
			cancel()
			return nil
		},
	})
}
