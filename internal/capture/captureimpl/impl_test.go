package captureimpl

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
)

type fakeDevice struct {
	mu      sync.Mutex
	open    int
	maxOpen int
	opens   int
	closes  int
	fail    error
	streams []*fakeStream
}

func (d *fakeDevice) Open(_ context.Context, facing domain.Facing, profile domain.Profile) (capture.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	d.open++
	d.opens++
	if d.open > d.maxOpen {
		d.maxOpen = d.open
	}
	s := &fakeStream{device: d, facing: facing, profile: profile, done: make(chan struct{})}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) last() *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streams[len(d.streams)-1]
}

func (d *fakeDevice) counts() (opens, closes, maxOpen int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens, d.closes, d.maxOpen
}

type fakeStream struct {
	device  *fakeDevice
	facing  domain.Facing
	profile domain.Profile
	once    sync.Once
	done    chan struct{}
}

func (s *fakeStream) Facing() domain.Facing   { return s.facing }
func (s *fakeStream) Profile() domain.Profile { return s.profile }
func (s *fakeStream) Done() <-chan struct{}   { return s.done }

func (s *fakeStream) Close() error {
	s.once.Do(func() {
		s.device.mu.Lock()
		s.device.open--
		s.device.closes++
		s.device.mu.Unlock()
		close(s.done)
	})
	return nil
}

func (s *fakeStream) NewRecorder() (capture.Recorder, error) {
	return &fakeRecorder{stream: s, stopped: make(chan struct{})}, nil
}

type fakeRecorder struct {
	stream  *fakeStream
	once    sync.Once
	stopped chan struct{}
}

func (r *fakeRecorder) Start() error { return nil }

func (r *fakeRecorder) Stop() {
	r.once.Do(func() { close(r.stopped) })
}

func (r *fakeRecorder) Wait() ([]byte, error) {
	select {
	case <-r.stopped:
	case <-r.stream.done:
	}
	return []byte("webm:" + r.stream.profile.Mode.String()), nil
}

type fakeDispatcher struct {
	segments chan domain.Segment
}

func (d *fakeDispatcher) Dispatch(seg domain.Segment) {
	d.segments <- seg
}

type fakeIdentity struct {
	mu sync.Mutex
	id string
}

func (i *fakeIdentity) UserID() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.id
}

func (i *fakeIdentity) set(id string) {
	i.mu.Lock()
	i.id = id
	i.mu.Unlock()
}

type harness struct {
	engine     *EngineImpl
	device     *fakeDevice
	dispatcher *fakeDispatcher
	identity   *fakeIdentity
	clock      *clockwork.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		device:     &fakeDevice{},
		dispatcher: &fakeDispatcher{segments: make(chan domain.Segment, 64)},
		identity:   &fakeIdentity{id: domain.AnonymousUserID},
		clock:      clockwork.NewFakeClock(),
	}
	h.engine = New(Opts{
		Device:     h.device,
		Dispatcher: h.dispatcher,
		Identity:   h.identity,
		Clock:      h.clock,
		Feed:       feed.New(0),
		Logger:     logger.NewNop(),
	})
	t.Cleanup(h.engine.DeactivateCamera)
	return h
}

func (h *harness) waitTimer(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("segment timer was not armed: %v", err)
	}
}

func (h *harness) nextSegment(t *testing.T) domain.Segment {
	t.Helper()
	select {
	case seg := <-h.dispatcher.segments:
		return seg
	case <-time.After(2 * time.Second):
		t.Fatal("no segment dispatched")
		return domain.Segment{}
	}
}

func (h *harness) assertNoSegment(t *testing.T) {
	t.Helper()
	select {
	case seg := <-h.dispatcher.segments:
		t.Fatalf("unexpected segment %d", seg.Index)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartRecordingWithoutCameraIsNoop(t *testing.T) {
	h := newHarness(t)

	if h.engine.StartRecording() {
		t.Fatal("StartRecording should be a no-op without a camera")
	}
	if h.engine.Status().Recording {
		t.Fatal("engine reports recording")
	}
	h.assertNoSegment(t)
}

func TestActivateCameraDeviceError(t *testing.T) {
	h := newHarness(t)
	h.device.fail = errors.Device(nil, "no camera")

	status, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront)
	if !errors.IsDevice(err) {
		t.Fatalf("expected device error, got %v", err)
	}
	if status.Active {
		t.Fatal("failed activation left an active session")
	}
}

func TestStandardTimerCutsSegment(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	if !h.engine.StartRecording() {
		t.Fatal("StartRecording returned false")
	}

	h.waitTimer(t)
	h.clock.Advance(120000 * time.Millisecond)

	seg := h.nextSegment(t)
	if seg.Index != 0 || seg.Mode.IsLite() {
		t.Fatalf("segment = index %d lite %v", seg.Index, seg.Mode.IsLite())
	}
	if seg.Filename() != "chunk_0.webm" {
		t.Errorf("filename = %q", seg.Filename())
	}

	h.waitTimer(t)
	h.assertNoSegment(t)
	if got := h.engine.Status().SegmentIndex; got != 1 {
		t.Fatalf("segment index = %d, want 1", got)
	}
}

func TestSegmentIndicesAreContiguous(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	h.engine.StartRecording()

	for i := 0; i < 5; i++ {
		h.waitTimer(t)
		h.clock.Advance(domain.QualityStandard.Profile().SegmentDuration)
		if seg := h.nextSegment(t); seg.Index != i {
			t.Fatalf("segment %d dispatched with index %d", i, seg.Index)
		}
	}

	h.waitTimer(t)
	h.engine.StopRecording()
	if seg := h.nextSegment(t); seg.Index != 5 {
		t.Fatalf("final segment index = %d, want 5", seg.Index)
	}
	h.assertNoSegment(t)
}

func TestStopBeforeTimerProducesOneFinalSegment(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	h.engine.StartRecording()
	h.waitTimer(t)

	h.engine.StopRecording()
	h.engine.StopRecording()

	if seg := h.nextSegment(t); seg.Index != 0 {
		t.Fatalf("final segment index = %d", seg.Index)
	}
	h.clock.Advance(time.Hour)
	h.assertNoSegment(t)

	status := h.engine.Status()
	if status.Recording {
		t.Fatal("still recording after stop")
	}
	if !status.Active {
		t.Fatal("stopping the recording released the camera")
	}
}

func TestQualitySwitchReleasesStreamBeforeAcquire(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingRear); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	h.engine.StartRecording()
	h.waitTimer(t)

	if err := h.engine.SetQualityMode(context.Background(), domain.QualityLite); err != nil {
		t.Fatalf("SetQualityMode: %v", err)
	}

	first := h.nextSegment(t)
	if first.Index != 0 || first.Mode != domain.QualityStandard {
		t.Fatalf("in-flight segment = index %d mode %s", first.Index, first.Mode)
	}

	h.waitTimer(t)
	h.clock.Advance(15 * time.Second)
	second := h.nextSegment(t)
	if second.Index != 1 || second.Mode != domain.QualityLite {
		t.Fatalf("next segment = index %d mode %s", second.Index, second.Mode)
	}
	if f := h.device.last().facing; f != domain.FacingRear {
		t.Errorf("facing after quality switch = %s", f)
	}

	h.engine.StopRecording()
	h.nextSegment(t)
	h.engine.DeactivateCamera()

	opens, closes, maxOpen := h.device.counts()
	if maxOpen != 1 {
		t.Errorf("max concurrent streams = %d, want 1", maxOpen)
	}
	if opens != closes {
		t.Errorf("opens = %d, closes = %d", opens, closes)
	}
}

func TestSwitchFacingKeepsSingleStream(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.SwitchFacing(context.Background()); !errors.IsValidation(err) {
		t.Fatalf("expected validation error without camera, got %v", err)
	}

	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	status, err := h.engine.SwitchFacing(context.Background())
	if err != nil {
		t.Fatalf("SwitchFacing: %v", err)
	}
	if status.Facing != domain.FacingRear {
		t.Fatalf("facing = %s", status.Facing)
	}
	if _, _, maxOpen := h.device.counts(); maxOpen != 1 {
		t.Fatalf("max concurrent streams = %d", maxOpen)
	}
}

func TestOwnerAndAutoPublishReadAtFinalize(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	h.engine.StartRecording()
	h.waitTimer(t)

	h.identity.set("user-42")
	h.engine.SetAutoPublish(true)
	h.engine.StopRecording()

	seg := h.nextSegment(t)
	if seg.OwnerID != "user-42" || !seg.AutoPublish {
		t.Fatalf("segment owner %q autoPublish %v", seg.OwnerID, seg.AutoPublish)
	}
}

func TestLoopExitsWhenStreamDisappears(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.ActivateCamera(context.Background(), domain.FacingFront); err != nil {
		t.Fatalf("ActivateCamera: %v", err)
	}
	h.engine.StartRecording()
	h.waitTimer(t)

	// unplugged outside the engine
	_ = h.device.last().Close()

	if seg := h.nextSegment(t); seg.Index != 0 {
		t.Fatalf("segment index = %d", seg.Index)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.engine.Status().Recording {
		if time.Now().After(deadline) {
			t.Fatal("segment loop did not exit")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if h.engine.Status().Active {
		t.Fatal("vanished stream still reported active")
	}
	h.assertNoSegment(t)
}
