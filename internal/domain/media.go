package domain

import (
	"fmt"
	"strings"
	"time"
)

// AnonymousUserID owns segments recorded without a signed-in user.
const AnonymousUserID = "offline-user"

type QualityMode int

const (
	QualityStandard QualityMode = iota
	QualityLite
)

func (m QualityMode) String() string {
	if m == QualityLite {
		return "lite"
	}
	return "standard"
}

func (m QualityMode) IsLite() bool { return m == QualityLite }

func ParseQualityMode(s string) (QualityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "hd":
		return QualityStandard, nil
	case "lite", "low":
		return QualityLite, nil
	default:
		return QualityStandard, fmt.Errorf("unknown quality mode %q", s)
	}
}

// Profile is the capture and encoding parameters of a quality mode.
type Profile struct {
	Mode            QualityMode
	Width           int
	Height          int
	FrameRate       int
	VideoBitrate    int // bits per second
	AudioBitrate    int // bits per second
	SegmentDuration time.Duration
}

var profiles = map[QualityMode]Profile{
	QualityStandard: {
		Mode:            QualityStandard,
		Width:           1920,
		Height:          1080,
		FrameRate:       30,
		VideoBitrate:    2_500_000,
		AudioBitrate:    128_000,
		SegmentDuration: 120 * time.Second,
	},
	QualityLite: {
		Mode:            QualityLite,
		Width:           640,
		Height:          480,
		FrameRate:       15,
		VideoBitrate:    500_000,
		AudioBitrate:    64_000,
		SegmentDuration: 15 * time.Second,
	},
}

func (m QualityMode) Profile() Profile {
	return profiles[m]
}

type Facing int

const (
	FacingFront Facing = iota
	FacingRear
)

func (f Facing) String() string {
	if f == FacingRear {
		return "rear"
	}
	return "front"
}

func (f Facing) Opposite() Facing {
	if f == FacingRear {
		return FacingFront
	}
	return FacingRear
}

func ParseFacing(s string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "front", "user":
		return FacingFront, nil
	case "rear", "back", "environment":
		return FacingRear, nil
	default:
		return FacingFront, fmt.Errorf("unknown camera facing %q", s)
	}
}

// Segment is one finished recording slice handed to the uploader.
type Segment struct {
	RecordingID string
	Index       int
	Payload     []byte
	OwnerID     string
	Mode        QualityMode
	AutoPublish bool
	CreatedAt   time.Time
}

func (s Segment) Filename() string {
	return fmt.Sprintf("chunk_%d.webm", s.Index)
}

// SessionStatus is a snapshot of the capture engine.
type SessionStatus struct {
	Active       bool
	Facing       Facing
	Mode         QualityMode
	Recording    bool
	SegmentIndex int
	RecordingID  string
}

type SegmentStatus string

const (
	SegmentUploaded SegmentStatus = "uploaded"
	SegmentFailed   SegmentStatus = "failed"
)

// SegmentRecord is the ledger row of one dispatched segment.
type SegmentRecord struct {
	ID          int
	RecordingID string
	Index       int
	OwnerID     string
	Mode        string
	Bytes       int
	Status      SegmentStatus
	Error       string
	CreatedAt   time.Time
}
