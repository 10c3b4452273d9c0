package socialimpl

import (
	"github.com/orgball2608/directorflow-agent/internal/session"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		func(p *session.Provider) *session.Provider { return p },
		fx.As(new(social.Session)),
	),
	fx.Annotate(
		New,
		fx.As(new(social.Manager)),
	),
)
