package backendimpl

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/orgball2608/directorflow-agent/internal/backend"
	"github.com/orgball2608/directorflow-agent/internal/domain"
)

func (b *BackendImpl) Logs(ctx context.Context) ([]string, error) {
	var out struct {
		Logs []string `json:"logs"`
	}
	if err := b.getJSON(ctx, "/logs", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (b *BackendImpl) Gallery(ctx context.Context, userID string) ([]domain.GalleryClip, error) {
	var clips []domain.GalleryClip
	if err := b.getJSON(ctx, "/gallery/"+url.PathEscape(userID), &clips); err != nil {
		return nil, err
	}
	return clips, nil
}

func (b *BackendImpl) UploadChunk(ctx context.Context, chunk backend.ChunkUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", chunk.Filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(chunk.Payload); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}

	fields := [][2]string{
		{"user_id", chunk.UserID},
		{"auto_upload", strconv.FormatBool(chunk.AutoUpload)},
		{"is_lite", strconv.FormatBool(chunk.Lite)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url("/upload-chunk"), &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	_, err = b.do(req)
	return err
}
