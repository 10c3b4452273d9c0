package upload

import "go.uber.org/fx"

var Module = fx.Provide(
	New,
	func(u *Uploader) Dispatcher { return u },
)
