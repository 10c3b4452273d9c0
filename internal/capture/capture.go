package capture

import (
	"context"

	"github.com/orgball2608/directorflow-agent/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=capture.go -destination=mocks/mock.go

// Engine owns the camera stream and the segment loop.
type Engine interface {
	ActivateCamera(ctx context.Context, facing domain.Facing) (domain.SessionStatus, error)
	DeactivateCamera()
	SwitchFacing(ctx context.Context) (domain.SessionStatus, error)
	SetQualityMode(ctx context.Context, mode domain.QualityMode) error
	QualityMode() domain.QualityMode
	SetAutoPublish(enabled bool)
	AutoPublish() bool
	StartRecording() bool
	StopRecording()
	Status() domain.SessionStatus
}

// Device acquires exclusive capture streams.
type Device interface {
	Open(ctx context.Context, facing domain.Facing, profile domain.Profile) (Stream, error)
}

// Stream is an acquired camera and microphone. Done is closed once the stream
// is released, either by Close or because the device went away.
type Stream interface {
	Facing() domain.Facing
	Profile() domain.Profile
	NewRecorder() (Recorder, error)
	Done() <-chan struct{}
	Close() error
}

// Recorder encodes one segment from a stream. Stop asks it to finalize and
// Wait blocks until the encoded payload is complete. A recorder finalizes by
// itself when its stream is released.
type Recorder interface {
	Start() error
	Stop()
	Wait() ([]byte, error)
}

// Identity resolves the owner of a segment at the moment it is finalized.
type Identity interface {
	UserID() string
}
