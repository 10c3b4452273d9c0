package captureimpl

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/upload"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Device     capture.Device
	Dispatcher upload.Dispatcher
	Identity   capture.Identity
	Clock      clockwork.Clock
	Feed       *feed.Feed
	Logger     logger.Logger
}

type EngineImpl struct {
	device     capture.Device
	dispatcher upload.Dispatcher
	identity   capture.Identity
	clock      clockwork.Clock
	feed       *feed.Feed
	logger     logger.Logger

	mode        atomic.Int32
	autoPublish atomic.Bool

	mu     sync.Mutex
	stream capture.Stream
	facing domain.Facing
	rec    *recording
}

var _ capture.Engine = (*EngineImpl)(nil)

func New(opts Opts) *EngineImpl {
	return &EngineImpl{
		device:     opts.Device,
		dispatcher: opts.Dispatcher,
		identity:   opts.Identity,
		clock:      opts.Clock,
		feed:       opts.Feed,
		logger:     opts.Logger.WithComponent("Capture"),
	}
}

func (e *EngineImpl) ActivateCamera(ctx context.Context, facing domain.Facing) (domain.SessionStatus, error) {
	e.mu.Lock()
	err := e.acquireLocked(ctx, facing)
	e.mu.Unlock()
	if err != nil {
		return e.Status(), err
	}

	e.feed.Append("📷 Camera " + facing.String() + " active (" + e.QualityMode().String() + ")")
	return e.Status(), nil
}

// acquireLocked releases the current stream before opening the new one so
// two device handles never coexist. On failure no session remains.
func (e *EngineImpl) acquireLocked(ctx context.Context, facing domain.Facing) error {
	if e.stream != nil {
		if err := e.stream.Close(); err != nil {
			e.logger.Warn("Failed to release camera stream", "error", err)
		}
		e.stream = nil
	}

	stream, err := e.device.Open(ctx, facing, e.QualityMode().Profile())
	if err != nil {
		e.logger.Error("Failed to open camera", "facing", facing.String(), "error", err)
		if errors.IsDevice(err) {
			return err
		}
		return errors.Device(err, "camera unavailable")
	}

	e.stream = stream
	e.facing = facing
	e.logger.Info("Camera stream acquired", "facing", facing.String(), "mode", e.QualityMode().String())
	return nil
}

func (e *EngineImpl) DeactivateCamera() {
	e.StopRecording()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return
	}
	if err := e.stream.Close(); err != nil {
		e.logger.Warn("Failed to release camera stream", "error", err)
	}
	e.stream = nil
	e.logger.Info("Camera stream released")
	e.feed.Append("📷 Camera off")
}

func (e *EngineImpl) SwitchFacing(ctx context.Context) (domain.SessionStatus, error) {
	e.mu.Lock()
	if e.stream == nil {
		e.mu.Unlock()
		return e.Status(), errors.WrapWithCode(errors.ErrNoSession, errors.CodeValidation, "camera is not active")
	}
	next := e.facing.Opposite()
	err := e.acquireLocked(ctx, next)
	e.mu.Unlock()
	if err != nil {
		return e.Status(), err
	}

	e.feed.Append("🔄 Switched to " + next.String() + " camera")
	return e.Status(), nil
}

// SetQualityMode stores the mode and restarts an active stream with it. A
// segment already encoding is finalized with its own profile.
func (e *EngineImpl) SetQualityMode(ctx context.Context, mode domain.QualityMode) error {
	e.mode.Store(int32(mode))
	e.feed.Append("⚙️ Quality: " + mode.String())

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return nil
	}
	return e.acquireLocked(ctx, e.facing)
}

func (e *EngineImpl) QualityMode() domain.QualityMode {
	return domain.QualityMode(e.mode.Load())
}

func (e *EngineImpl) SetAutoPublish(enabled bool) {
	e.autoPublish.Store(enabled)
}

func (e *EngineImpl) AutoPublish() bool {
	return e.autoPublish.Load()
}

func (e *EngineImpl) Status() domain.SessionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := domain.SessionStatus{
		Active: e.liveStreamLocked() != nil,
		Facing: e.facing,
		Mode:   e.QualityMode(),
	}
	if e.rec != nil {
		status.Recording = true
		status.RecordingID = e.rec.id
		status.SegmentIndex = e.rec.currentIndex()
	}
	return status
}

// currentStream returns the live stream, dropping one whose device went away.
func (e *EngineImpl) currentStream() capture.Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liveStreamLocked()
}

func (e *EngineImpl) liveStreamLocked() capture.Stream {
	if e.stream == nil {
		return nil
	}
	select {
	case <-e.stream.Done():
		e.logger.Warn("Camera stream disappeared")
		e.stream = nil
		return nil
	default:
		return e.stream
	}
}
