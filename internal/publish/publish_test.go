package publish

import (
	"context"
	"sync"
	"testing"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	mock_backend "github.com/orgball2608/directorflow-agent/internal/backend/mocks"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	mock_social "github.com/orgball2608/directorflow-agent/internal/social/mocks"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/mock/gomock"
)

var clip = domain.GalleryClip{
	ID:       "clip-1",
	Title:    "Best moment",
	Filename: "http://127.0.0.1:8000/clips/clip-1.mp4",
	Score:    9.1,
}

type mocks struct {
	backend *mock_backend.MockClient
	social  *mock_social.MockManager
	session *mock_social.MockSession
}

func newDispatcher(t *testing.T) (*Dispatcher, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		backend: mock_backend.NewMockClient(ctrl),
		social:  mock_social.NewMockManager(ctrl),
		session: mock_social.NewMockSession(ctrl),
	}
	m.session.EXPECT().UserID().Return("user-1").AnyTimes()
	return NewDispatcher(m.backend, m.social, m.session, logger.NewNop()), m
}

func TestPublishRequiresPlatforms(t *testing.T) {
	d, _ := newDispatcher(t)

	if _, err := d.Publish(context.Background(), clip, nil, "caption"); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublishSkipsDisconnectedPlatforms(t *testing.T) {
	d, m := newDispatcher(t)

	m.social.EXPECT().Connected(gomock.Any()).Return([]domain.Platform{domain.PlatformYouTube}, nil)
	m.backend.EXPECT().Publish(gomock.Any(), backend.PublishRequest{
		UserID:        "user-1",
		ClipID:        "clip-1",
		VideoFilename: clip.Filename,
		Caption:       "Best moment",
		Platforms:     []domain.Platform{domain.PlatformYouTube},
	}).Return(map[domain.Platform]domain.PublishResult{
		domain.PlatformYouTube: {Platform: domain.PlatformYouTube, Success: true, Link: "https://youtu.be/x"},
	}, nil)

	report, err := d.Publish(context.Background(), clip, []domain.Platform{domain.PlatformYouTube, domain.PlatformInstagram}, "")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(report.Published) != 1 || report.Published[0] != domain.PlatformYouTube {
		t.Fatalf("published = %v", report.Published)
	}
	if len(report.NeedsConnect) != 1 || report.NeedsConnect[0] != domain.PlatformInstagram {
		t.Fatalf("needs connect = %v", report.NeedsConnect)
	}
}

func TestPublishNothingConnectedMakesNoRequest(t *testing.T) {
	d, m := newDispatcher(t)

	m.social.EXPECT().Connected(gomock.Any()).Return(nil, nil)

	report, err := d.Publish(context.Background(), clip, []domain.Platform{domain.PlatformTikTok}, "hi")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(report.NeedsConnect) != 1 || len(report.Published) != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestPublishPlatformErrorOffersReconnect(t *testing.T) {
	d, m := newDispatcher(t)

	m.social.EXPECT().Connected(gomock.Any()).Return([]domain.Platform{domain.PlatformInstagram}, nil)
	m.backend.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(map[domain.Platform]domain.PublishResult{
		domain.PlatformInstagram: {Platform: domain.PlatformInstagram, Message: "Profile key not found"},
	}, nil)

	report, err := d.Publish(context.Background(), clip, []domain.Platform{domain.PlatformInstagram}, "caption")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(report.Published) != 0 {
		t.Fatalf("published = %v", report.Published)
	}
	if len(report.Reconnect) != 1 || report.Results[domain.PlatformInstagram].Message != "Profile key not found" {
		t.Fatalf("report = %+v", report)
	}
}

func TestSelectionPreselectsConnected(t *testing.T) {
	s := NewSelection("clip-1", []domain.Platform{domain.PlatformYouTube})

	if !s.IsSelected(domain.PlatformYouTube) {
		t.Fatal("youtube should be preselected")
	}
	if a := s.Toggle(domain.PlatformInstagram); a != ActionConnect {
		t.Fatalf("toggle instagram = %v, want connect", a)
	}
	if s.IsSelected(domain.PlatformInstagram) {
		t.Fatal("disconnected platform became selected")
	}
	if a := s.Toggle(domain.PlatformYouTube); a != ActionDeselected {
		t.Fatalf("toggle youtube = %v", a)
	}
	if len(s.Selected()) != 0 {
		t.Fatalf("selected = %v", s.Selected())
	}
}

func TestSelectionConcurrentToggles(t *testing.T) {
	s := NewSelection("clip-1", []domain.Platform{domain.PlatformYouTube, domain.PlatformTikTok})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(p domain.Platform) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Toggle(p)
				_ = s.IsSelected(p)
				_ = s.Selected()
			}
		}(domain.Platforms[i%len(domain.Platforms)])
	}
	wg.Wait()

	// every platform was toggled an even number of times
	got := s.Selected()
	if len(got) != 2 || got[0] != domain.PlatformYouTube || got[1] != domain.PlatformTikTok {
		t.Fatalf("selected = %v", got)
	}
}
