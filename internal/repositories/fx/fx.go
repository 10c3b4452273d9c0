package fx

import (
	"github.com/orgball2608/directorflow-agent/internal/repositories/pendingauth"
	"github.com/orgball2608/directorflow-agent/internal/repositories/segment"
	"go.uber.org/fx"
)

var Module = fx.Options(
	pendingauth.Module,
	segment.Module,
)
