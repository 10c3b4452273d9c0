package socialimpl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/repositories/pendingauth"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

const (
	codeQueueSize = 8
	// handledCodes is how many completed codes are remembered for deduplication.
	handledCodes = 32
)

type Opts struct {
	fx.In

	Backend backend.Client
	Pending pendingauth.Repository
	Session social.Session
	Clock   clockwork.Clock
	Config  *config.Config
	Logger  logger.Logger
}

type ManagerImpl struct {
	backend backend.Client
	pending pendingauth.Repository
	session social.Session
	clock   clockwork.Clock
	logger  logger.Logger
	scope   string
	ttl     time.Duration

	codes chan string

	mu        sync.Mutex
	connected map[domain.Platform]struct{}
	stale     bool
	inflight  map[domain.Platform]domain.ConnectionState
	handled   map[string]struct{}
	order     []string
	listeners map[int]social.Listener
	nextID    int
}

var _ social.Manager = (*ManagerImpl)(nil)

func New(opts Opts) *ManagerImpl {
	return NewManager(opts.Backend, opts.Pending, opts.Session, opts.Clock, opts.Logger, opts.Config.App.Scope, opts.Config.Pending.TTL)
}

func NewManager(b backend.Client, pending pendingauth.Repository, sess social.Session, clock clockwork.Clock, log logger.Logger, scope string, ttl time.Duration) *ManagerImpl {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ManagerImpl{
		backend:   b,
		pending:   pending,
		session:   sess,
		clock:     clock,
		logger:    log.WithComponent("Social"),
		scope:     scope,
		ttl:       ttl,
		codes:     make(chan string, codeQueueSize),
		connected: make(map[domain.Platform]struct{}),
		stale:     true,
		inflight:  make(map[domain.Platform]domain.ConnectionState),
		handled:   make(map[string]struct{}, handledCodes),
		listeners: make(map[int]social.Listener),
	}
}

// InitConnection records the pending authorization and returns the provider
// URL the user must visit. Any other flow awaiting its redirect is abandoned.
func (m *ManagerImpl) InitConnection(ctx context.Context, platform domain.Platform, clientID, clientSecret string) (string, error) {
	if _, err := domain.ParsePlatform(string(platform)); err != nil {
		return "", errors.Validation(err.Error())
	}
	clientID, clientSecret = strings.TrimSpace(clientID), strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return "", errors.Validation("client id and client secret are required")
	}
	if !m.session.Authenticated() {
		return "", errors.WrapWithCode(errors.ErrUnauthorized, errors.CodeValidation, "sign in before connecting a platform")
	}

	now := m.clock.Now()
	pending := domain.PendingAuthorization{
		Scope:     m.scope,
		Platform:  platform,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.pending.Save(ctx, pending); err != nil {
		return "", errors.Wrap(err, "failed to remember pending authorization")
	}

	m.mu.Lock()
	for p := range m.inflight {
		delete(m.inflight, p)
	}
	m.inflight[platform] = domain.StateAwaitingProviderRedirect
	m.mu.Unlock()

	authURL, err := m.backend.AuthInit(ctx, backend.AuthInitRequest{
		UserID:       m.session.UserID(),
		Platform:     platform,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		m.logger.Error("Authorization init failed", "platform", platform, "error", err)
		m.abandon(platform)
		if delErr := m.pending.Delete(context.WithoutCancel(ctx), m.scope); delErr != nil {
			m.logger.Warn("Failed to clear pending authorization", "error", delErr)
		}
		return "", asAuthError(err, errors.AuthInit)
	}

	m.logger.Info("Authorization started", "platform", platform)
	return authURL, nil
}

// CompleteConnection exchanges code for the pending platform once the user
// session is known. The pending record is consumed before the exchange so a
// code is never used twice. Without a pending record, or for a code already
// exchanged, nothing happens.
func (m *ManagerImpl) CompleteConnection(ctx context.Context, code string) (domain.Platform, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.Validation("authorization code is empty")
	}
	if m.wasHandled(code) {
		m.logger.Debug("Authorization code already handled")
		return "", nil
	}

	user, err := m.session.Wait(ctx)
	if err != nil {
		return "", err
	}

	pending, err := m.pending.Take(ctx, m.scope)
	if err != nil {
		if errors.IsNotFound(err) {
			m.logger.Debug("Authorization code without pending authorization ignored")
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read pending authorization")
	}
	m.markHandled(code)
	platform := pending.Platform

	m.mu.Lock()
	m.inflight[platform] = domain.StateFinalizing
	m.mu.Unlock()

	err = m.backend.AuthCallback(ctx, backend.AuthCallbackRequest{
		UserID:   user.ID,
		Code:     code,
		Platform: platform,
	})
	m.abandon(platform)
	if err != nil {
		m.logger.Error("Authorization callback failed", "platform", platform, "error", err)
		return platform, asAuthError(err, errors.AuthCallback)
	}

	m.logger.Info("Platform connected", "platform", platform)
	m.markStale()
	if _, err := m.RefreshConnections(ctx); err != nil {
		m.logger.Warn("Failed to refresh connections", "error", err)
		m.mu.Lock()
		m.connected[platform] = struct{}{}
		m.mu.Unlock()
	}
	return platform, nil
}

// Deliver hands a code from the callback route to Run without blocking.
func (m *ManagerImpl) Deliver(code string) {
	select {
	case m.codes <- code:
	default:
		m.logger.Warn("Authorization code dropped, queue full")
	}
}

// Run restores a persisted pending authorization, then completes delivered
// codes, each at most once, and notifies listeners.
func (m *ManagerImpl) Run(ctx context.Context) {
	m.restorePending(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case code := <-m.codes:
			platform, err := m.CompleteConnection(ctx, code)
			if ctx.Err() != nil {
				return
			}
			if platform == "" {
				// Nothing was consumed, so a redelivered code can still complete.
				if err != nil {
					m.logger.Error("Authorization code not completed", "error", err)
				}
				continue
			}
			m.notify(social.Outcome{Platform: platform, Err: err})
		}
	}
}

// restorePending marks the platform of a stored, unexpired authorization as
// awaiting its redirect, so a restarted agent reports it correctly.
func (m *ManagerImpl) restorePending(ctx context.Context) {
	pending, err := m.pending.Get(ctx, m.scope)
	if err != nil {
		if !errors.IsNotFound(err) {
			m.logger.Warn("Failed to read pending authorization", "error", err)
		}
		return
	}

	m.mu.Lock()
	if _, ok := m.inflight[pending.Platform]; !ok {
		m.inflight[pending.Platform] = domain.StateAwaitingProviderRedirect
	}
	m.mu.Unlock()
	m.logger.Info("Pending authorization restored", "platform", pending.Platform, "expires_at", pending.ExpiresAt)
}

func (m *ManagerImpl) wasHandled(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handled[code]
	return ok
}

// markHandled remembers code, forgetting the oldest once handledCodes are kept.
func (m *ManagerImpl) markHandled(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handled[code]; ok {
		return
	}
	if len(m.order) >= handledCodes {
		delete(m.handled, m.order[0])
		m.order = m.order[1:]
	}
	m.handled[code] = struct{}{}
	m.order = append(m.order, code)
}

// Cancel abandons the pending authorization, if any.
func (m *ManagerImpl) Cancel(ctx context.Context) error {
	m.mu.Lock()
	for p, s := range m.inflight {
		if s == domain.StateAwaitingProviderRedirect {
			delete(m.inflight, p)
		}
	}
	m.mu.Unlock()

	if err := m.pending.Delete(ctx, m.scope); err != nil {
		return errors.Wrap(err, "failed to clear pending authorization")
	}
	m.logger.Info("Pending authorization cancelled")
	return nil
}

func (m *ManagerImpl) Disconnect(ctx context.Context, platform domain.Platform) error {
	if _, err := domain.ParsePlatform(string(platform)); err != nil {
		return errors.Validation(err.Error())
	}

	if err := m.backend.AuthDisconnect(ctx, m.session.UserID(), platform); err != nil {
		m.logger.Error("Disconnect failed", "platform", platform, "error", err)
		return err
	}

	m.logger.Info("Platform disconnected", "platform", platform)
	m.mu.Lock()
	delete(m.connected, platform)
	m.stale = true
	m.mu.Unlock()

	if _, err := m.RefreshConnections(ctx); err != nil {
		m.logger.Warn("Failed to refresh connections", "error", err)
	}
	return nil
}

// RefreshConnections replaces the cached set with the backend's.
func (m *ManagerImpl) RefreshConnections(ctx context.Context) ([]domain.Platform, error) {
	platforms, err := m.backend.AuthStatus(ctx, m.session.UserID())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.connected = make(map[domain.Platform]struct{}, len(platforms))
	for _, p := range platforms {
		m.connected[p] = struct{}{}
	}
	m.stale = false
	m.mu.Unlock()

	return m.sortedConnected(), nil
}

// Connected returns the cached set, refreshing it first when stale.
func (m *ManagerImpl) Connected(ctx context.Context) ([]domain.Platform, error) {
	m.mu.Lock()
	stale := m.stale
	m.mu.Unlock()
	if stale {
		return m.RefreshConnections(ctx)
	}
	return m.sortedConnected(), nil
}

func (m *ManagerImpl) State(platform domain.Platform) domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.inflight[platform]; ok {
		return s
	}
	if _, ok := m.connected[platform]; ok {
		return domain.StateConnected
	}
	return domain.StateDisconnected
}

func (m *ManagerImpl) Subscribe(fn social.Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *ManagerImpl) notify(o social.Outcome) {
	m.mu.Lock()
	listeners := make([]social.Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(o)
	}
}

func (m *ManagerImpl) abandon(platform domain.Platform) {
	m.mu.Lock()
	delete(m.inflight, platform)
	m.mu.Unlock()
}

func (m *ManagerImpl) markStale() {
	m.mu.Lock()
	m.stale = true
	m.mu.Unlock()
}

func (m *ManagerImpl) sortedConnected() []domain.Platform {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Platform, 0, len(m.connected))
	for _, p := range domain.Platforms {
		if _, ok := m.connected[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// asAuthError surfaces a backend rejection verbatim under the handshake code.
// Transport failures stay network errors.
func asAuthError(err error, wrap func(string) error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return wrap(apiErr.Message)
	}
	return err
}
