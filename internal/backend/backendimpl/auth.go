package backendimpl

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
)

func (b *BackendImpl) AuthInit(ctx context.Context, req backend.AuthInitRequest) (string, error) {
	body, err := b.postJSON(ctx, "/auth/init", req)
	if err != nil {
		return "", err
	}

	var out struct {
		statusPayload
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Network(err, "malformed /auth/init response")
	}
	if out.URL == "" {
		if out.failed() {
			return "", &backend.APIError{Message: out.reason()}
		}
		return "", &backend.APIError{Message: "backend returned no authorization url"}
	}
	return out.URL, nil
}

func (b *BackendImpl) AuthCallback(ctx context.Context, req backend.AuthCallbackRequest) error {
	body, err := b.postJSON(ctx, "/auth/callback", req)
	if err != nil {
		return err
	}

	var out statusPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return errors.Network(err, "malformed /auth/callback response")
	}
	if out.failed() || out.Status != "success" {
		return &backend.APIError{Message: out.reason()}
	}
	return nil
}

func (b *BackendImpl) AuthDisconnect(ctx context.Context, userID string, platform domain.Platform) error {
	body, err := b.postJSON(ctx, "/auth/disconnect", map[string]string{
		"user_id":  userID,
		"platform": string(platform),
	})
	if err != nil {
		return err
	}

	var out statusPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return errors.Network(err, "malformed /auth/disconnect response")
	}
	if out.failed() {
		return &backend.APIError{Message: out.reason()}
	}
	return nil
}

func (b *BackendImpl) AuthStatus(ctx context.Context, userID string) ([]domain.Platform, error) {
	var out struct {
		Connected []string `json:"connected"`
	}
	if err := b.getJSON(ctx, "/auth/status/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}

	platforms := make([]domain.Platform, 0, len(out.Connected))
	for _, raw := range out.Connected {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			b.Logger.Warn("Ignoring unknown platform in auth status", "platform", raw)
			continue
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}
