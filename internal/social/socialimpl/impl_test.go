package socialimpl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/directorflow-agent/internal/backend"
	mock_backend "github.com/orgball2608/directorflow-agent/internal/backend/mocks"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/repositories/pendingauth"
	mock_pendingauth "github.com/orgball2608/directorflow-agent/internal/repositories/pendingauth/mocks"
	"github.com/orgball2608/directorflow-agent/internal/session"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/mock/gomock"
)

type fakeSession struct {
	user *session.User
}

func (s *fakeSession) UserID() string {
	if s.user == nil {
		return domain.AnonymousUserID
	}
	return s.user.ID
}

func (s *fakeSession) Authenticated() bool { return s.user != nil }

func (s *fakeSession) Wait(ctx context.Context) (session.User, error) {
	if s.user == nil {
		<-ctx.Done()
		return session.User{}, ctx.Err()
	}
	return *s.user, nil
}

type fixture struct {
	manager *ManagerImpl
	backend *mock_backend.MockClient
	pending *mock_pendingauth.MockRepository
	session *fakeSession
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		backend: mock_backend.NewMockClient(ctrl),
		pending: mock_pendingauth.NewMockRepository(ctrl),
		session: &fakeSession{user: &session.User{ID: "user-1"}},
		clock:   clockwork.NewFakeClock(),
	}
	f.manager = NewManager(f.backend, f.pending, f.session, f.clock, logger.NewNop(), "default", 15*time.Minute)
	return f
}

func TestInitConnectionValidatesBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		platform domain.Platform
		id, sec  string
	}{
		{"empty id", domain.PlatformYouTube, "", "secret"},
		{"empty secret", domain.PlatformYouTube, "id", "  "},
		{"unknown platform", domain.Platform("myspace"), "id", "secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.manager.InitConnection(ctx, tc.platform, tc.id, tc.sec); !errors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	f.session.user = nil
	_, err := f.manager.InitConnection(ctx, domain.PlatformYouTube, "id", "secret")
	if !errors.IsValidation(err) || !errors.Is(err, errors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized validation error without session, got %v", err)
	}
}

func TestInitConnectionLastWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var saved []domain.Platform
	f.pending.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p domain.PendingAuthorization) error {
		if p.Scope != "default" || !p.ExpiresAt.Equal(p.CreatedAt.Add(15*time.Minute)) {
			t.Errorf("pending = %+v", p)
		}
		saved = append(saved, p.Platform)
		return nil
	}).Times(2)
	f.backend.EXPECT().AuthInit(gomock.Any(), backend.AuthInitRequest{
		UserID: "user-1", Platform: domain.PlatformYouTube, ClientID: "id", ClientSecret: "secret",
	}).Return("https://accounts.google.com/o/oauth2/auth?x=1", nil)
	f.backend.EXPECT().AuthInit(gomock.Any(), gomock.Any()).Return("https://www.tiktok.com/auth", nil)

	url, err := f.manager.InitConnection(ctx, domain.PlatformYouTube, "id", "secret")
	if err != nil || url == "" {
		t.Fatalf("InitConnection: %q %v", url, err)
	}
	if s := f.manager.State(domain.PlatformYouTube); s != domain.StateAwaitingProviderRedirect {
		t.Fatalf("youtube state = %s", s)
	}

	if _, err := f.manager.InitConnection(ctx, domain.PlatformTikTok, "id", "secret"); err != nil {
		t.Fatalf("InitConnection: %v", err)
	}
	if s := f.manager.State(domain.PlatformYouTube); s != domain.StateDisconnected {
		t.Fatalf("abandoned youtube state = %s", s)
	}
	if len(saved) != 2 || saved[1] != domain.PlatformTikTok {
		t.Fatalf("saved = %v", saved)
	}
}

func TestInitErrorClearsPending(t *testing.T) {
	f := newFixture(t)

	f.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	f.backend.EXPECT().AuthInit(gomock.Any(), gomock.Any()).Return("", &backend.APIError{Message: "invalid_client"})
	f.pending.EXPECT().Delete(gomock.Any(), "default").Return(nil)

	_, err := f.manager.InitConnection(context.Background(), domain.PlatformTwitter, "id", "bad")
	if !errors.IsAuthInit(err) {
		t.Fatalf("expected init error, got %v", err)
	}
	if errors.GetMessage(err) != "invalid_client" {
		t.Fatalf("message = %q", errors.GetMessage(err))
	}
	if s := f.manager.State(domain.PlatformTwitter); s != domain.StateDisconnected {
		t.Fatalf("state = %s", s)
	}
}

func TestCompleteConnectionWithoutPendingIsNoop(t *testing.T) {
	f := newFixture(t)

	f.pending.EXPECT().Take(gomock.Any(), "default").Return(nil, pendingauth.ErrNotFound)

	platform, err := f.manager.CompleteConnection(context.Background(), "code-1")
	if err != nil || platform != "" {
		t.Fatalf("CompleteConnection = %q, %v", platform, err)
	}
}

func TestCompleteConnectionSuccessRefreshes(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.pending.EXPECT().Take(gomock.Any(), "default").Return(&domain.PendingAuthorization{Platform: domain.PlatformYouTube}, nil),
		f.backend.EXPECT().AuthCallback(gomock.Any(), backend.AuthCallbackRequest{
			UserID: "user-1", Code: "code-1", Platform: domain.PlatformYouTube,
		}).Return(nil),
		f.backend.EXPECT().AuthStatus(gomock.Any(), "user-1").Return([]domain.Platform{domain.PlatformYouTube}, nil),
	)

	platform, err := f.manager.CompleteConnection(context.Background(), "code-1")
	if err != nil || platform != domain.PlatformYouTube {
		t.Fatalf("CompleteConnection = %q, %v", platform, err)
	}
	if s := f.manager.State(domain.PlatformYouTube); s != domain.StateConnected {
		t.Fatalf("state = %s", s)
	}
}

func TestCompleteConnectionFailureLeavesPendingCleared(t *testing.T) {
	f := newFixture(t)

	f.pending.EXPECT().Take(gomock.Any(), "default").Return(&domain.PendingAuthorization{Platform: domain.PlatformInstagram}, nil)
	f.backend.EXPECT().AuthCallback(gomock.Any(), gomock.Any()).Return(&backend.APIError{Message: "code expired"})

	_, err := f.manager.CompleteConnection(context.Background(), "code-1")
	if !errors.IsAuthCallback(err) || errors.GetMessage(err) != "code expired" {
		t.Fatalf("expected callback error, got %v", err)
	}

	// the record was consumed, a replay of the same code does not reach the store
	if platform, err := f.manager.CompleteConnection(context.Background(), "code-1"); platform != "" || err != nil {
		t.Fatalf("replay = %q, %v", platform, err)
	}
}

func TestRunCompletesEachCodeOnce(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan social.Outcome, 4)
	f.manager.Subscribe(func(o social.Outcome) { outcomes <- o })

	f.pending.EXPECT().Get(gomock.Any(), "default").Return(nil, pendingauth.ErrNotFound)
	f.pending.EXPECT().Take(gomock.Any(), "default").Return(&domain.PendingAuthorization{Platform: domain.PlatformTikTok}, nil).Times(1)
	f.backend.EXPECT().AuthCallback(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.backend.EXPECT().AuthStatus(gomock.Any(), gomock.Any()).Return([]domain.Platform{domain.PlatformTikTok}, nil)

	go f.manager.Run(ctx)
	f.manager.Deliver("code-9")
	f.manager.Deliver("code-9")

	select {
	case o := <-outcomes:
		if o.Err != nil || o.Platform != domain.PlatformTikTok {
			t.Fatalf("outcome = %+v", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome")
	}
	select {
	case o := <-outcomes:
		t.Fatalf("second outcome %+v", o)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunRetriesCodeAfterTransientStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan social.Outcome, 4)
	f.manager.Subscribe(func(o social.Outcome) { outcomes <- o })

	f.pending.EXPECT().Get(gomock.Any(), "default").Return(nil, pendingauth.ErrNotFound)
	gomock.InOrder(
		f.pending.EXPECT().Take(gomock.Any(), "default").Return(nil, fmt.Errorf("connection reset")),
		f.pending.EXPECT().Take(gomock.Any(), "default").Return(&domain.PendingAuthorization{Platform: domain.PlatformYouTube}, nil),
	)
	f.backend.EXPECT().AuthCallback(gomock.Any(), backend.AuthCallbackRequest{
		UserID: "user-1", Code: "code-3", Platform: domain.PlatformYouTube,
	}).Return(nil)
	f.backend.EXPECT().AuthStatus(gomock.Any(), "user-1").Return([]domain.Platform{domain.PlatformYouTube}, nil)

	go f.manager.Run(ctx)
	f.manager.Deliver("code-3")
	f.manager.Deliver("code-3")

	select {
	case o := <-outcomes:
		if o.Err != nil || o.Platform != domain.PlatformYouTube {
			t.Fatalf("outcome = %+v", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("redelivered code was not completed")
	}
	select {
	case o := <-outcomes:
		t.Fatalf("unexpected outcome %+v", o)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunRestoresPendingAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.pending.EXPECT().Get(gomock.Any(), "default").Return(&domain.PendingAuthorization{
		Scope:     "default",
		Platform:  domain.PlatformInstagram,
		ExpiresAt: f.clock.Now().Add(10 * time.Minute),
	}, nil)

	go f.manager.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for f.manager.State(domain.PlatformInstagram) != domain.StateAwaitingProviderRedirect {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s", f.manager.State(domain.PlatformInstagram))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandledCodesAreBounded(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < handledCodes+10; i++ {
		f.manager.markHandled(fmt.Sprintf("code-%d", i))
	}

	if n := len(f.manager.handled); n != handledCodes {
		t.Fatalf("remembered %d codes, want %d", n, handledCodes)
	}
	if f.manager.wasHandled("code-0") {
		t.Fatal("oldest code still remembered")
	}
	if !f.manager.wasHandled(fmt.Sprintf("code-%d", handledCodes+9)) {
		t.Fatal("newest code forgotten")
	}
}

func TestConnectedRefreshesWhenStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.backend.EXPECT().AuthStatus(gomock.Any(), "user-1").Return([]domain.Platform{domain.PlatformTwitter, domain.PlatformYouTube}, nil).Times(1)

	for i := 0; i < 2; i++ {
		got, err := f.manager.Connected(ctx)
		if err != nil {
			t.Fatalf("Connected: %v", err)
		}
		if len(got) != 2 || got[0] != domain.PlatformYouTube || got[1] != domain.PlatformTwitter {
			t.Fatalf("connected = %v", got)
		}
	}
}

func TestDisconnectRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gomock.InOrder(
		f.backend.EXPECT().AuthDisconnect(gomock.Any(), "user-1", domain.PlatformYouTube).Return(nil),
		f.backend.EXPECT().AuthStatus(gomock.Any(), "user-1").Return(nil, nil),
	)

	if err := f.manager.Disconnect(ctx, domain.PlatformYouTube); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if s := f.manager.State(domain.PlatformYouTube); s != domain.StateDisconnected {
		t.Fatalf("state = %s", s)
	}
}
