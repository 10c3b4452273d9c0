package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

var ErrNoSubject = errors.New("token has no subject")

// User is the signed-in identity.
type User struct {
	ID        string
	Email     string
	ExpiresAt time.Time
}

// Provider holds the current user session. Reads are always of the current value,
// so callbacks scheduled before a login observe the user that exists when they run.
type Provider struct {
	mu     sync.RWMutex
	user   *User
	ready  chan struct{}
	secret []byte
	logger logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *Provider {
	return NewProvider(opts.Config.Session.JWTSecret, opts.Logger)
}

func NewProvider(secret string, log logger.Logger) *Provider {
	return &Provider{
		ready:  make(chan struct{}),
		secret: []byte(secret),
		logger: log.WithComponent("Session"),
	}
}

// Restore resolves token in the background, the way a page restores its
// session on load. An empty token leaves the agent anonymous.
func (p *Provider) Restore(ctx context.Context, token string) {
	if token == "" {
		p.logger.Info("Running in anonymous mode")
		return
	}
	go func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := p.Login(token); err != nil {
			p.logger.Warn("Session restore failed, running in anonymous mode", "error", err)
		}
	}()
}

// Login validates token and makes its subject the current user.
func (p *Provider) Login(token string) (User, error) {
	claims := jwt.MapClaims{}
	var err error
	if len(p.secret) > 0 {
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return p.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	} else {
		// Without a shared secret the identity provider is trusted as-is.
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		if err == nil {
			if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil && exp.Before(time.Now()) {
				err = jwt.ErrTokenExpired
			}
		}
	}
	if err != nil {
		return User{}, fmt.Errorf("invalid session token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return User{}, ErrNoSubject
	}

	u := User{ID: sub}
	if email, ok := claims["email"].(string); ok {
		u.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		u.ExpiresAt = exp.Time
	}

	p.mu.Lock()
	p.user = &u
	select {
	case <-p.ready:
	default:
		close(p.ready)
	}
	p.mu.Unlock()

	p.logger.Info("User authenticated", "user_id", u.ID)
	return u, nil
}

func (p *Provider) Logout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return
	}
	p.user = nil
	p.ready = make(chan struct{})
	p.logger.Info("User signed out")
}

// UserID returns the current user id or the anonymous sentinel.
func (p *Provider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return domain.AnonymousUserID
	}
	return p.user.ID
}

func (p *Provider) Current() (User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return User{}, false
	}
	return *p.user, true
}

func (p *Provider) Authenticated() bool {
	_, ok := p.Current()
	return ok
}

// Ready is closed once a user is signed in.
func (p *Provider) Ready() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// Wait blocks until a user is signed in or ctx ends.
func (p *Provider) Wait(ctx context.Context) (User, error) {
	for {
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-p.Ready():
			if u, ok := p.Current(); ok {
				return u, nil
			}
			// Signed out between the close and the read; wait for the next login.
		}
	}
}
