package pollerimpl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mock_backend "github.com/orgball2608/directorflow-agent/internal/backend/mocks"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/mock/gomock"
)

type staticIdentity string

func (s staticIdentity) UserID() string { return string(s) }

func TestPollLogsMergesIntoFeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	f := feed.New(0)
	p := NewPoller(b, f, staticIdentity("u1"), logger.NewNop(), time.Second, time.Second)

	b.EXPECT().Logs(gomock.Any()).Return([]string{"clip scored", "clip scored", "upload ok"}, nil)

	if err := p.PollLogs(context.Background()); err != nil {
		t.Fatalf("PollLogs: %v", err)
	}
	tail := f.Tail(0)
	if len(tail) != 3 || tail[1] != "clip scored" || tail[2] != "upload ok" {
		t.Fatalf("feed = %v", tail)
	}
}

func TestPollLogsErrorLeavesFeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	f := feed.New(0)
	p := NewPoller(b, f, staticIdentity("u1"), logger.NewNop(), time.Second, time.Second)

	b.EXPECT().Logs(gomock.Any()).Return(nil, errors.New("offline"))

	if err := p.PollLogs(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(f.Tail(0)) != 1 {
		t.Fatalf("feed changed: %v", f.Tail(0))
	}
}

func TestPollGalleryAnnouncesOnlyNewClips(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	p := NewPoller(b, feed.New(0), staticIdentity("u1"), logger.NewNop(), time.Second, time.Second)

	var announced [][]domain.GalleryClip
	unsubscribe := p.Subscribe(func(clips []domain.GalleryClip) { announced = append(announced, clips) })

	gomock.InOrder(
		b.EXPECT().Gallery(gomock.Any(), "u1").Return([]domain.GalleryClip{{ID: "a"}}, nil),
		b.EXPECT().Gallery(gomock.Any(), "u1").Return([]domain.GalleryClip{{ID: "a"}, {ID: "b"}}, nil),
		b.EXPECT().Gallery(gomock.Any(), "u1").Return([]domain.GalleryClip{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil),
	)

	for i := 0; i < 2; i++ {
		if err := p.PollGallery(context.Background()); err != nil {
			t.Fatalf("PollGallery: %v", err)
		}
	}
	unsubscribe()
	if err := p.PollGallery(context.Background()); err != nil {
		t.Fatalf("PollGallery: %v", err)
	}

	if len(announced) != 1 || len(announced[0]) != 1 || announced[0][0].ID != "b" {
		t.Fatalf("announced = %v", announced)
	}
	if got := len(p.Gallery()); got != 3 {
		t.Fatalf("gallery size = %d", got)
	}
}

func TestConcurrentGalleryPollsShareOneRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	p := NewPoller(b, feed.New(0), staticIdentity("u1"), logger.NewNop(), time.Second, time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	b.EXPECT().Gallery(gomock.Any(), "u1").DoAndReturn(func(context.Context, string) ([]domain.GalleryClip, error) {
		close(entered)
		<-release
		return []domain.GalleryClip{{ID: "c1"}}, nil
	}).Times(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.PollGallery(context.Background())
	}()
	<-entered

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.PollGallery(context.Background()); err != nil {
				t.Errorf("PollGallery: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := p.Gallery(); len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("gallery = %v", got)
	}
}

func TestScheduledTicksDoNotOverlap(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	p := NewPoller(b, feed.New(0), staticIdentity("u1"), logger.NewNop(), 5*time.Millisecond, time.Second)

	var running, maxRunning, calls atomic.Int32
	slow := func() {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		calls.Add(1)
		time.Sleep(30 * time.Millisecond)
		running.Add(-1)
	}
	b.EXPECT().Logs(gomock.Any()).DoAndReturn(func(context.Context) ([]string, error) {
		slow()
		return nil, nil
	}).AnyTimes()
	b.EXPECT().Gallery(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	if calls.Load() < 2 {
		t.Fatalf("logs polled %d times", calls.Load())
	}
	if maxRunning.Load() != 1 {
		t.Fatalf("%d log polls overlapped", maxRunning.Load())
	}
}
