package captureimpl

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/domain"
)

type recording struct {
	id       string
	index    atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newRecording() *recording {
	return &recording{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (r *recording) currentIndex() int {
	return int(r.index.Load())
}

func (r *recording) requestStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *recording) stopping() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// StartRecording begins the segment loop with index 0. It reports false and does
// nothing when no camera is active or a recording is already running.
func (e *EngineImpl) StartRecording() bool {
	e.mu.Lock()
	if e.stream == nil {
		e.mu.Unlock()
		e.logger.Debug("Start recording ignored, camera is not active")
		return false
	}
	if e.rec != nil {
		e.mu.Unlock()
		return false
	}
	rec := newRecording()
	e.rec = rec
	e.mu.Unlock()

	e.logger.Info("Recording started", "recording", rec.id, "mode", e.QualityMode().String())
	e.feed.Append("🔴 Recording started")
	go e.run(rec)
	return true
}

// StopRecording finalizes the segment in progress and waits until it has been
// dispatched. No further segment is scheduled. Calling it again has no effect.
func (e *EngineImpl) StopRecording() {
	e.mu.Lock()
	rec := e.rec
	e.mu.Unlock()
	if rec == nil {
		return
	}

	rec.requestStop()
	<-rec.done
}

func (e *EngineImpl) run(rec *recording) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered in segment loop", "recording", rec.id, "panic", r)
		}
		e.mu.Lock()
		if e.rec == rec {
			e.rec = nil
		}
		e.mu.Unlock()
		close(rec.done)
		e.logger.Info("Recording finished", "recording", rec.id, "segments", rec.currentIndex())
		e.feed.Append("⏹ Recording stopped")
	}()

	for !rec.stopping() {
		stream := e.currentStream()
		if stream == nil {
			e.logger.Warn("No camera stream, segment loop exits", "recording", rec.id)
			e.feed.Append("⚠️ Recording halted: camera stream lost")
			return
		}
		if !e.recordSegment(rec, stream) {
			return
		}
	}
}

// recordSegment encodes one segment from stream until its timer fires, the
// recording stops or the stream is released. It reports whether the loop may go on.
func (e *EngineImpl) recordSegment(rec *recording, stream capture.Stream) bool {
	profile := stream.Profile()

	recorder, err := stream.NewRecorder()
	if err != nil {
		e.logger.Error("Failed to create recorder", "error", err)
		return false
	}
	if err := recorder.Start(); err != nil {
		e.logger.Error("Failed to start recorder", "error", err)
		return false
	}

	timer := e.clock.NewTimer(profile.SegmentDuration)
	select {
	case <-timer.Chan():
	case <-rec.stop:
	case <-stream.Done():
	}
	timer.Stop()

	recorder.Stop()
	payload, err := recorder.Wait()
	if err != nil && len(payload) == 0 {
		e.logger.Error("Recorder produced no data", "segment", rec.currentIndex(), "error", err)
		e.feed.Append(fmt.Sprintf("⚠️ Recording halted: %v", err))
		return false
	}
	if err != nil {
		e.logger.Warn("Recorder finished with error", "segment", rec.currentIndex(), "error", err)
	}
	if len(payload) == 0 {
		e.logger.Debug("Empty segment discarded", "segment", rec.currentIndex())
		return true
	}

	seg := domain.Segment{
		RecordingID: rec.id,
		Index:       rec.currentIndex(),
		Payload:     payload,
		OwnerID:     e.identity.UserID(),
		Mode:        profile.Mode,
		AutoPublish: e.AutoPublish(),
		CreatedAt:   e.clock.Now(),
	}
	e.dispatcher.Dispatch(seg)
	rec.index.Add(1)

	e.logger.Debug("Segment finalized", "segment", seg.Index, "bytes", len(payload), "mode", seg.Mode.String())
	return true
}
