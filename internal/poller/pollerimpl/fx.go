package pollerimpl

import (
	"github.com/orgball2608/directorflow-agent/internal/poller"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		New,
		fx.As(new(poller.Client)),
	),
)
