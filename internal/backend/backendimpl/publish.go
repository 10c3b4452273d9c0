package backendimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
)

type platformOutcome struct {
	statusPayload
	Link string `json:"link"`
}

func (b *BackendImpl) Publish(ctx context.Context, req backend.PublishRequest) (map[domain.Platform]domain.PublishResult, error) {
	names := make([]string, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		names = append(names, string(p))
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"user_id", req.UserID},
		{"clip_id", req.ClipID},
		{"video_filename", req.VideoFilename},
		{"caption", req.Caption},
		{"platforms", strings.Join(names, ",")},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url("/upload"), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	body, err := b.do(httpReq)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Network(err, "malformed /upload response")
	}

	// A top-level error means nothing was attempted.
	if msg, ok := raw["error"]; ok {
		var reason string
		if json.Unmarshal(msg, &reason) == nil {
			return nil, &backend.APIError{Message: reason}
		}
	}

	results := make(map[domain.Platform]domain.PublishResult, len(raw))
	for key, value := range raw {
		p, err := domain.ParsePlatform(key)
		if err != nil {
			continue
		}
		var outcome platformOutcome
		if err := json.Unmarshal(value, &outcome); err != nil {
			results[p] = domain.PublishResult{Platform: p, Message: "malformed result"}
			continue
		}
		if outcome.Status == "success" && !outcome.failed() {
			results[p] = domain.PublishResult{Platform: p, Success: true, Link: outcome.Link}
			continue
		}
		results[p] = domain.PublishResult{Platform: p, Message: outcome.reason()}
	}
	return results, nil
}
