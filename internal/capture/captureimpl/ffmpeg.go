package captureimpl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/orgball2608/directorflow-agent/internal/capture"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
)

// FFmpegDevice captures V4L2 video and ALSA or Pulse audio with an ffmpeg
// subprocess per segment, encoding VP8/Opus webm to stdout.
type FFmpegDevice struct {
	bin         string
	devices     map[domain.Facing]string
	audioFormat string
	audioDevice string
	logger      logger.Logger
}

var _ capture.Device = (*FFmpegDevice)(nil)

func NewFFmpegDevice(cfg *config.Config, log logger.Logger) *FFmpegDevice {
	return &FFmpegDevice{
		bin: cfg.Capture.FFmpeg,
		devices: map[domain.Facing]string{
			domain.FacingFront: cfg.Capture.FrontDevice,
			domain.FacingRear:  cfg.Capture.RearDevice,
		},
		audioFormat: cfg.Capture.AudioFormat,
		audioDevice: cfg.Capture.AudioDevice,
		logger:      log.WithComponent("FFmpeg"),
	}
}

func (d *FFmpegDevice) Open(_ context.Context, facing domain.Facing, profile domain.Profile) (capture.Stream, error) {
	path := d.devices[facing]
	if path == "" {
		return nil, errors.Device(nil, fmt.Sprintf("no %s camera configured", facing))
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Device(err, fmt.Sprintf("%s camera %s unavailable", facing, path))
	}
	bin, err := exec.LookPath(d.bin)
	if err != nil {
		return nil, errors.Device(err, "ffmpeg not found")
	}

	return &ffmpegStream{
		device:  d,
		bin:     bin,
		path:    path,
		facing:  facing,
		profile: profile,
		done:    make(chan struct{}),
	}, nil
}

type ffmpegStream struct {
	device  *FFmpegDevice
	bin     string
	path    string
	facing  domain.Facing
	profile domain.Profile

	closeOnce sync.Once
	done      chan struct{}
}

func (s *ffmpegStream) Facing() domain.Facing   { return s.facing }
func (s *ffmpegStream) Profile() domain.Profile { return s.profile }
func (s *ffmpegStream) Done() <-chan struct{}   { return s.done }

func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *ffmpegStream) NewRecorder() (capture.Recorder, error) {
	select {
	case <-s.done:
		return nil, errors.Device(nil, "stream released")
	default:
	}
	return &ffmpegRecorder{
		stream: s,
		args:   s.args(),
		logger: s.device.logger,
	}, nil
}

func (s *ffmpegStream) args() []string {
	p := s.profile
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-framerate", fmt.Sprint(p.FrameRate),
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-i", s.path,
		"-f", s.device.audioFormat,
		"-i", s.device.audioDevice,
		"-c:v", "libvpx",
		"-b:v", fmt.Sprint(p.VideoBitrate),
		"-deadline", "realtime",
		"-cpu-used", "8",
		"-c:a", "libopus",
		"-b:a", fmt.Sprint(p.AudioBitrate),
		"-f", "webm",
		"pipe:1",
	}
}

type ffmpegRecorder struct {
	stream *ffmpegStream
	args   []string
	logger logger.Logger

	cmd         *exec.Cmd
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	stopOnce    sync.Once
	interrupted atomic.Bool
	exited      chan struct{}
	err         error
}

func (r *ffmpegRecorder) Start() error {
	r.cmd = exec.Command(r.stream.bin, r.args...)
	r.cmd.Stdout = &r.stdout
	r.cmd.Stderr = &r.stderr
	r.exited = make(chan struct{})

	if err := r.cmd.Start(); err != nil {
		return errors.Device(err, "failed to start ffmpeg")
	}

	go func() {
		r.err = r.cmd.Wait()
		close(r.exited)
	}()
	go func() {
		select {
		case <-r.stream.done:
			r.Stop()
		case <-r.exited:
			if r.interrupted.Load() {
				return
			}
			// ffmpeg only exits on its own when the camera or microphone went away.
			r.logger.Error("ffmpeg exited unexpectedly, releasing camera stream",
				"device", r.stream.path, "error", r.err, "stderr", strings.TrimSpace(r.stderr.String()))
			_ = r.stream.Close()
		}
	}()
	return nil
}

// Stop interrupts ffmpeg so it writes the container trailer before exiting.
func (r *ffmpegRecorder) Stop() {
	r.stopOnce.Do(func() {
		if r.cmd == nil || r.cmd.Process == nil {
			return
		}
		select {
		case <-r.exited:
			return
		default:
		}
		r.interrupted.Store(true)
		if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
			r.logger.Warn("Failed to interrupt ffmpeg", "error", err)
		}
	})
}

func (r *ffmpegRecorder) Wait() ([]byte, error) {
	if r.exited == nil {
		return nil, errors.Device(nil, "recorder not started")
	}
	<-r.exited

	payload := r.stdout.Bytes()
	if r.err == nil {
		return payload, nil
	}

	// ffmpeg exits non-zero after an interrupt; the webm on stdout is complete.
	if r.interrupted.Load() && len(payload) > 0 {
		return payload, nil
	}
	msg := strings.TrimSpace(r.stderr.String())
	if msg == "" {
		msg = "ffmpeg exited"
	}
	return payload, errors.Device(r.err, msg)
}
