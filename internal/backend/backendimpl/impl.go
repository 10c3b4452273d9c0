package backendimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

const defaultTimeout = 30 * time.Second

type BackendImpl struct {
	baseURL string
	http    *http.Client
	// timeout bounds calls whose context carries no deadline of its own.
	timeout time.Duration
	Logger  logger.Logger
}

// New builds the client without a client-wide timeout: uploads bring their
// own deadline, everything else gets API_TIMEOUT.
func New(opts Opts) *BackendImpl {
	b := NewWithClient(opts.Config.Backend.URL, &http.Client{
		Transport: &http.Transport{
			DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			MaxIdleConns:    16,
			IdleConnTimeout: 90 * time.Second,
		},
	}, opts.Logger)
	if opts.Config.Backend.Timeout > 0 {
		b.timeout = opts.Config.Backend.Timeout
	}
	return b
}

func NewWithClient(baseURL string, httpClient *http.Client, log logger.Logger) *BackendImpl {
	return &BackendImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: defaultTimeout,
		Logger:  log.WithComponent("Backend"),
	}
}

var _ backend.Client = (*BackendImpl)(nil)

func (b *BackendImpl) url(path string) string {
	return b.baseURL + path
}

// do sends req and returns the body of a 2xx response.
func (b *BackendImpl) do(req *http.Request) ([]byte, error) {
	if _, ok := req.Context().Deadline(); !ok && b.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), b.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, errors.Network(err, fmt.Sprintf("%s %s failed", req.Method, req.URL.Path))
	}
	defer safeClose(resp.Body, b.Logger)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(err, "failed to read backend response")
	}

	b.Logger.Debug("Backend call", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, errors.Network(&backend.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
		}, fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}
	return body, nil
}

func (b *BackendImpl) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	body, err := b.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Network(err, "malformed backend response")
	}
	return nil
}

func (b *BackendImpl) postJSON(ctx context.Context, path string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

// statusPayload covers the two error shapes the backend uses:
// {"error": "..."} and {"status": "error", "message": "..."}.
type statusPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p statusPayload) failed() bool {
	return p.Error != "" || strings.EqualFold(p.Status, "error")
}

func (p statusPayload) reason() string {
	switch {
	case p.Error != "":
		return p.Error
	case p.Message != "":
		return p.Message
	default:
		return "unknown error"
	}
}

func errorMessage(body []byte, fallback string) string {
	var p statusPayload
	if json.Unmarshal(body, &p) == nil && p.failed() {
		return p.reason()
	}
	var detail struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != nil {
		return fmt.Sprint(detail.Detail)
	}
	return fallback
}

// safeClose safely closes an io.ReadCloser and logs any errors
func safeClose(closer io.ReadCloser, log logger.Logger) {
	if err := closer.Close(); err != nil {
		log.Error("Error closing response body", "error", err)
	}
}
