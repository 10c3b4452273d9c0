package captureimpl

import (
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/session"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		clockwork.NewRealClock,
		fx.Annotate(
			NewFFmpegDevice,
			fx.As(new(capture.Device)),
		),
		fx.Annotate(
			func(p *session.Provider) *session.Provider { return p },
			fx.As(new(capture.Identity)),
		),
		fx.Annotate(
			New,
			fx.As(new(capture.Engine)),
		),
	),
)
