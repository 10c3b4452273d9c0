package pollerimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/poller"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

type Opts struct {
	fx.In

	Backend  backend.Client
	Feed     *feed.Feed
	Identity capture.Identity
	Config   *config.Config
	Logger   logger.Logger
}

type PollerImpl struct {
	Backend  backend.Client
	Feed     *feed.Feed
	Identity capture.Identity
	Logger   logger.Logger

	interval time.Duration
	timeout  time.Duration
	// inflight collapses scheduled ticks and on-demand polls into one request.
	inflight singleflight.Group

	mu      sync.Mutex
	clips   []domain.GalleryClip
	seen    map[string]struct{}
	seeded  bool
	owner   string
	subs    map[int]poller.GalleryListener
	nextSub int
}

var _ poller.Client = (*PollerImpl)(nil)

func New(opts Opts) *PollerImpl {
	return NewPoller(opts.Backend, opts.Feed, opts.Identity, opts.Logger, opts.Config.Backend.PollInterval, opts.Config.Backend.Timeout)
}

func NewPoller(b backend.Client, f *feed.Feed, identity capture.Identity, log logger.Logger, interval, timeout time.Duration) *PollerImpl {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PollerImpl{
		Backend:  b,
		Feed:     f,
		Identity: identity,
		Logger:   log.WithComponent("Poller"),
		interval: interval,
		timeout:  timeout,
		seen:     make(map[string]struct{}),
		subs:     make(map[int]poller.GalleryListener),
	}
}

// Start schedules the logs and gallery jobs. A tick never overlaps the
// previous tick of the same job.
func (p *PollerImpl) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create poll scheduler: %w", err)
	}

	jobs := map[string]func(context.Context) error{
		"logs":    p.PollLogs,
		"gallery": p.PollGallery,
	}
	for name, poll := range jobs {
		name, poll := name, poll
		_, err = scheduler.NewJob(
			gocron.DurationJob(p.interval),
			gocron.NewTask(func() {
				if ctx.Err() != nil {
					return
				}
				taskCtx, cancel := context.WithTimeout(ctx, p.timeout)
				defer cancel()

				if err := poll(taskCtx); err != nil {
					p.Logger.Debug("Poll failed", "resource", name, "error", err)
				}
			}),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule %s polling: %w", name, err)
		}
	}

	scheduler.Start()
	p.Logger.Info("Polling started", "interval", p.interval)

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping poll scheduler")
		if err := scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down poll scheduler", "error", err)
		}
	}()

	return nil
}

func (p *PollerImpl) PollLogs(ctx context.Context) error {
	_, err, _ := p.inflight.Do("logs", func() (any, error) {
		return nil, p.pollLogs(ctx)
	})
	return err
}

func (p *PollerImpl) pollLogs(ctx context.Context) error {
	lines, err := p.Backend.Logs(ctx)
	if err != nil {
		return err
	}
	p.Feed.Merge(lines)
	return nil
}

// PollGallery refreshes the clip list of the current user. The first result
// for a user only seeds the known set; later results announce unseen clips.
// A call made while a gallery request is in flight shares its result.
func (p *PollerImpl) PollGallery(ctx context.Context) error {
	_, err, _ := p.inflight.Do("gallery", func() (any, error) {
		return nil, p.pollGallery(ctx)
	})
	return err
}

func (p *PollerImpl) pollGallery(ctx context.Context) error {
	owner := p.Identity.UserID()
	clips, err := p.Backend.Gallery(ctx, owner)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if owner != p.owner {
		p.owner = owner
		p.seen = make(map[string]struct{})
		p.seeded = false
	}
	var fresh []domain.GalleryClip
	for _, c := range clips {
		if _, ok := p.seen[c.ID]; ok {
			continue
		}
		p.seen[c.ID] = struct{}{}
		if p.seeded {
			fresh = append(fresh, c)
		}
	}
	p.seeded = true
	p.clips = clips
	subs := make([]poller.GalleryListener, 0, len(p.subs))
	for _, s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	if len(fresh) == 0 {
		return nil
	}
	p.Logger.Info("New clips in gallery", "count", len(fresh))
	for _, s := range subs {
		s(fresh)
	}
	return nil
}

func (p *PollerImpl) Gallery() []domain.GalleryClip {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.GalleryClip(nil), p.clips...)
}

func (p *PollerImpl) Subscribe(fn poller.GalleryListener) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}
