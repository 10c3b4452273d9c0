package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/repositories/segment"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/formatter"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

// Dispatcher hands finished segments to the network. Dispatch never blocks on
// the upload itself and never retries.
type Dispatcher interface {
	Dispatch(seg domain.Segment)
}

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Backend backend.Client
	Feed    *feed.Feed
	Ledger  segment.Repository
	Config  *config.Config
	Logger  logger.Logger
}

type Uploader struct {
	Backend backend.Client
	Feed    *feed.Feed
	Ledger  segment.Repository
	Logger  logger.Logger

	pool    *ants.Pool
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

var _ Dispatcher = (*Uploader)(nil)

func New(opts Opts) (*Uploader, error) {
	u, err := NewUploader(opts.Backend, opts.Feed, opts.Ledger, opts.Logger, opts.Config.Capture.UploadWorkers, opts.Config.Backend.UploadTimeout)
	if err != nil {
		return nil, err
	}
	opts.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return u.Close(ctx)
		},
	})
	return u, nil
}

func NewUploader(b backend.Client, f *feed.Feed, ledger segment.Repository, log logger.Logger, workers int, timeout time.Duration) (*Uploader, error) {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	// Dispatch runs on the capture loop and must never wait for a free worker.
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload pool: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Uploader{
		Backend: b,
		Feed:    f,
		Ledger:  ledger,
		Logger:  log.WithComponent("Uploader"),
		pool:    pool,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}, nil
}

func (u *Uploader) Dispatch(seg domain.Segment) {
	target := "MANUAL"
	if seg.AutoPublish {
		target = "AUTO"
	}
	u.Feed.Append(fmt.Sprintf("🚀 Uploading %s (%s, %s)...", chunkName(seg), target, formatter.FormatBytes(len(seg.Payload))))

	err := u.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				u.Logger.Error("Panic recovered in upload worker", "segment", seg.Index, "panic", r)
			}
		}()
		_ = u.UploadSegment(u.ctx, seg)
	})
	if err != nil {
		u.Logger.Error("Failed to submit upload", "segment", seg.Index, "error", err)
		u.Feed.Append(fmt.Sprintf("❌ Upload Failed: %s (upload queue full)", chunkName(seg)))
		u.record(seg, err)
	}
}

// UploadSegment posts one segment. A failure is logged to the feed and returned;
// the next segment uploads independently.
func (u *Uploader) UploadSegment(ctx context.Context, seg domain.Segment) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	err := u.Backend.UploadChunk(ctx, backend.ChunkUpload{
		Filename:   seg.Filename(),
		Payload:    seg.Payload,
		UserID:     seg.OwnerID,
		AutoUpload: seg.AutoPublish,
		Lite:       seg.Mode.IsLite(),
	})
	if err != nil {
		u.Logger.Error("Segment upload failed", "segment", seg.Index, "recording", seg.RecordingID, "error", err)
		u.Feed.Append(fmt.Sprintf("❌ Upload Failed: %s", chunkName(seg)))
	} else {
		u.Logger.Info("Segment uploaded", "segment", seg.Index, "bytes", len(seg.Payload), "mode", seg.Mode.String())
		u.Feed.Append(fmt.Sprintf("✅ %s sent", chunkName(seg)))
	}

	u.record(seg, err)
	return err
}

func (u *Uploader) record(seg domain.Segment, uploadErr error) {
	if u.Ledger == nil || seg.RecordingID == "" {
		return
	}
	rec := domain.SegmentRecord{
		RecordingID: seg.RecordingID,
		Index:       seg.Index,
		OwnerID:     seg.OwnerID,
		Mode:        seg.Mode.String(),
		Bytes:       len(seg.Payload),
		Status:      domain.SegmentUploaded,
	}
	if uploadErr != nil {
		rec.Status = domain.SegmentFailed
		rec.Error = uploadErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.Ledger.Create(ctx, rec); err != nil {
		u.Logger.Warn("Failed to record segment in ledger", "segment", seg.Index, "error", err)
	}
}

// Close waits for in-flight uploads until ctx ends, then cancels them.
func (u *Uploader) Close(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	wait := 10 * time.Second
	if ok {
		wait = time.Until(deadline)
	}
	err := u.pool.ReleaseTimeout(wait)
	u.cancel()
	if err != nil {
		u.Logger.Warn("Uploads still running at shutdown", "error", err)
	}
	return nil
}

// ScheduleLedgerCleanup sets up a daily job removing ledger rows older than retention.
func (u *Uploader) ScheduleLedgerCleanup(ctx context.Context, retention time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			rows, err := u.Ledger.CleanupOldRecords(cleanupCtx, retention)
			if err != nil {
				u.Logger.Error("Failed to clean up segment ledger", "error", err)
				return
			}
			u.Logger.Info("Segment ledger cleanup completed", "rows_deleted", rows)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule ledger cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		if err := scheduler.Shutdown(); err != nil {
			u.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}

func chunkName(seg domain.Segment) string {
	return fmt.Sprintf("chunk_%d", seg.Index)
}
