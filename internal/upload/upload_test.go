package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	mock_backend "github.com/orgball2608/directorflow-agent/internal/backend/mocks"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	mock_segment "github.com/orgball2608/directorflow-agent/internal/repositories/segment/mocks"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/mock/gomock"
)

func newTestUploader(t *testing.T, b backend.Client, ledger *mock_segment.MockRepository) (*Uploader, *feed.Feed) {
	t.Helper()
	f := feed.New(0)
	u, err := NewUploader(b, f, ledger, logger.NewNop(), 2, time.Second)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}
	t.Cleanup(func() { _ = u.Close(context.Background()) })
	return u, f
}

func TestUploadSegmentSendsFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	ledger := mock_segment.NewMockRepository(ctrl)
	u, f := newTestUploader(t, b, ledger)

	seg := domain.Segment{
		RecordingID: "rec-1",
		Index:       1,
		Payload:     []byte("abc"),
		OwnerID:     "user-1",
		Mode:        domain.QualityStandard,
		AutoPublish: true,
	}

	b.EXPECT().UploadChunk(gomock.Any(), backend.ChunkUpload{
		Filename:   "chunk_1.webm",
		Payload:    []byte("abc"),
		UserID:     "user-1",
		AutoUpload: true,
		Lite:       false,
	}).Return(nil)
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec domain.SegmentRecord) error {
		if rec.Status != domain.SegmentUploaded || rec.Index != 1 || rec.Bytes != 3 || rec.Mode != "standard" {
			t.Errorf("unexpected ledger row %+v", rec)
		}
		return nil
	})

	if err := u.UploadSegment(context.Background(), seg); err != nil {
		t.Fatalf("UploadSegment: %v", err)
	}
	if last := f.Tail(1); len(last) != 1 || !strings.Contains(last[0], "chunk_1 sent") {
		t.Errorf("feed tail = %v", last)
	}
}

func TestUploadSegmentFailureIsRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	ledger := mock_segment.NewMockRepository(ctrl)
	u, f := newTestUploader(t, b, ledger)

	seg := domain.Segment{RecordingID: "rec-1", Index: 0, Payload: []byte("x"), OwnerID: "offline-user", Mode: domain.QualityLite}

	b.EXPECT().UploadChunk(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c backend.ChunkUpload) error {
		if !c.Lite {
			t.Errorf("expected lite upload")
		}
		return errors.New("connection refused")
	})
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec domain.SegmentRecord) error {
		if rec.Status != domain.SegmentFailed || rec.Error == "" {
			t.Errorf("unexpected ledger row %+v", rec)
		}
		return errors.New("db down")
	})

	if err := u.UploadSegment(context.Background(), seg); err == nil {
		t.Fatal("expected error")
	}
	if last := f.Tail(1); !strings.Contains(last[0], "Upload Failed") {
		t.Errorf("feed tail = %v", last)
	}
}

func TestDispatchUploadsInBackground(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	u, f := newTestUploader(t, b, nil)

	done := make(chan struct{})
	b.EXPECT().UploadChunk(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, backend.ChunkUpload) error {
		close(done)
		return nil
	})

	u.Dispatch(domain.Segment{Index: 4, Payload: []byte("abcd"), AutoPublish: false})

	if tail := f.Tail(0); !strings.Contains(strings.Join(tail, "\n"), "Uploading chunk_4 (MANUAL") {
		t.Errorf("feed = %v", tail)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("upload was not dispatched")
	}
}

func TestFailedUploadDoesNotAffectNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	u, _ := newTestUploader(t, b, nil)

	gomock.InOrder(
		b.EXPECT().UploadChunk(gomock.Any(), gomock.Any()).Return(errors.New("boom")),
		b.EXPECT().UploadChunk(gomock.Any(), gomock.Any()).Return(nil),
	)

	if err := u.UploadSegment(context.Background(), domain.Segment{Index: 0}); err == nil {
		t.Fatal("expected first upload to fail")
	}
	if err := u.UploadSegment(context.Background(), domain.Segment{Index: 1}); err != nil {
		t.Fatalf("second upload: %v", err)
	}
}

func TestDispatchDoesNotBlockWhenWorkersAreBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockClient(ctrl)
	ledger := mock_segment.NewMockRepository(ctrl)
	f := feed.New(0)
	u, err := NewUploader(b, f, ledger, logger.NewNop(), 1, time.Second)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { _ = u.Close(context.Background()) })
	t.Cleanup(func() { close(release) })

	b.EXPECT().UploadChunk(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, backend.ChunkUpload) error {
		close(started)
		<-release
		return nil
	})
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec domain.SegmentRecord) error {
		if rec.Index == 1 && rec.Status != domain.SegmentFailed {
			t.Errorf("rejected segment recorded as %s", rec.Status)
		}
		return nil
	}).Times(2)

	u.Dispatch(domain.Segment{RecordingID: "rec-1", Index: 0, Payload: []byte("a")})
	<-started

	returned := make(chan struct{})
	go func() {
		u.Dispatch(domain.Segment{RecordingID: "rec-1", Index: 1, Payload: []byte("b")})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a busy pool")
	}

	if tail := strings.Join(f.Tail(0), "\n"); !strings.Contains(tail, "Upload Failed: chunk_1") {
		t.Errorf("feed = %v", tail)
	}
}
