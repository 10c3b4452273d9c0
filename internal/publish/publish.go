package publish

import (
	"context"
	"strings"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

// Report is the outcome of one publish request.
type Report struct {
	Results map[domain.Platform]domain.PublishResult
	// Published lists the platforms the backend confirmed.
	Published []domain.Platform
	// NeedsConnect lists requested platforms that were not connected and were not sent.
	NeedsConnect []domain.Platform
	// Reconnect lists sent platforms the backend rejected.
	Reconnect []domain.Platform
}

type Opts struct {
	fx.In

	Backend backend.Client
	Social  social.Manager
	Session social.Session
	Logger  logger.Logger
}

type Dispatcher struct {
	backend backend.Client
	social  social.Manager
	session social.Session
	logger  logger.Logger
}

func New(opts Opts) *Dispatcher {
	return NewDispatcher(opts.Backend, opts.Social, opts.Session, opts.Logger)
}

func NewDispatcher(b backend.Client, m social.Manager, sess social.Session, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		backend: b,
		social:  m,
		session: sess,
		logger:  log.WithComponent("Publish"),
	}
}

// Publish sends clip to the connected subset of platforms in a single request.
// Disconnected platforms are never sent. Nothing is retried.
func (d *Dispatcher) Publish(ctx context.Context, clip domain.GalleryClip, platforms []domain.Platform, caption string) (Report, error) {
	report := Report{Results: make(map[domain.Platform]domain.PublishResult)}

	requested := dedupe(platforms)
	if len(requested) == 0 {
		return report, errors.Validation("select at least one platform")
	}
	if clip.ID == "" {
		return report, errors.Validation("clip is required")
	}

	connected, err := d.social.Connected(ctx)
	if err != nil {
		return report, err
	}
	isConnected := make(map[domain.Platform]bool, len(connected))
	for _, p := range connected {
		isConnected[p] = true
	}

	var targets []domain.Platform
	for _, p := range requested {
		if isConnected[p] {
			targets = append(targets, p)
		} else {
			report.NeedsConnect = append(report.NeedsConnect, p)
		}
	}
	if len(targets) == 0 {
		d.logger.Info("Nothing to publish, no requested platform is connected", "clip", clip.ID)
		return report, nil
	}

	if strings.TrimSpace(caption) == "" {
		caption = clip.Title
	}

	results, err := d.backend.Publish(ctx, backend.PublishRequest{
		UserID:        d.session.UserID(),
		ClipID:        clip.ID,
		VideoFilename: clip.Filename,
		Caption:       caption,
		Platforms:     targets,
	})
	if err != nil {
		d.logger.Error("Publish failed", "clip", clip.ID, "error", err)
		return report, err
	}

	for _, p := range targets {
		res, ok := results[p]
		if !ok {
			res = domain.PublishResult{Platform: p, Message: "no result returned"}
		}
		report.Results[p] = res
		if res.Success {
			report.Published = append(report.Published, p)
		} else {
			report.Reconnect = append(report.Reconnect, p)
		}
	}

	d.logger.Info("Clip published", "clip", clip.ID, "published", len(report.Published), "failed", len(report.Reconnect))
	return report, nil
}

func dedupe(platforms []domain.Platform) []domain.Platform {
	seen := make(map[domain.Platform]bool, len(platforms))
	out := make([]domain.Platform, 0, len(platforms))
	for _, p := range platforms {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
