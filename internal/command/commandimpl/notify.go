package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/formatter"
)

// StartNotifications tells the operator about completed authorizations, new
// clips and capture failures until ctx ends.
func (c *CommandImpl) StartNotifications(ctx context.Context) {
	unsubscribeSocial := c.Social.Subscribe(func(o social.Outcome) {
		c.notify(ctx, authMessage(o))
	})
	unsubscribeGallery := c.Poller.Subscribe(func(clips []domain.GalleryClip) {
		c.notify(ctx, clipsMessage(clips))
	})
	unsubscribeFeed := c.Feed.Subscribe(func(lines []string) {
		if alert := alertLines(lines); alert != "" {
			go c.notify(ctx, alert)
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribeSocial()
		unsubscribeGallery()
		unsubscribeFeed()
	}()
}

// alertLines picks the feed lines the operator must see without asking for /logs.
func alertLines(lines []string) string {
	var alerts []string
	for _, l := range lines {
		if strings.Contains(l, "❌ Upload Failed") || strings.Contains(l, "⚠️ Recording halted") {
			alerts = append(alerts, strings.TrimPrefix(l, "[UI] "))
		}
	}
	return strings.Join(alerts, "\n")
}

func (c *CommandImpl) notify(ctx context.Context, text string) {
	if err := c.Telegram.SendMessageToUser(ctx, text); err != nil {
		c.Logger.Warn("Notification not delivered", "error", err)
	}
}

func authMessage(o social.Outcome) string {
	if o.Err != nil {
		return fmt.Sprintf("❌ %s connection failed: %s\nStart again with /connect %s <client_id> <client_secret>",
			o.Platform.Title(), errors.GetMessage(o.Err), o.Platform)
	}
	return fmt.Sprintf("✅ %s connected.", o.Platform.Title())
}

func clipsMessage(clips []domain.GalleryClip) string {
	var b strings.Builder
	if len(clips) == 1 {
		b.WriteString("✨ New clip ready\n")
	} else {
		fmt.Fprintf(&b, "✨ %d new clips ready\n", len(clips))
	}
	for _, clip := range clips {
		fmt.Fprintf(&b, "• %s (%s) /publish %s\n", clip.Title, formatter.FormatScore(clip.Score), clip.ID)
	}
	return b.String()
}
