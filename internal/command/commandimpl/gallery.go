package commandimpl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/internal/publish"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/formatter"
)

const (
	logLines     = 15
	galleryLimit = 10

	dialogTTL  = time.Hour
	maxDialogs = 20
)

type publishDialog struct {
	clip      domain.GalleryClip
	caption   string
	selection *publish.Selection
	createdAt time.Time
}

func (c *CommandImpl) handleLogs(chatID int64) error {
	lines := c.Feed.Tail(logLines)
	_, err := c.Telegram.SendMessage(chatID, "📜 Activity\n"+strings.Join(lines, "\n"))
	return err
}

func (c *CommandImpl) handleGallery(ctx context.Context, chatID int64) error {
	if err := c.Poller.PollGallery(ctx); err != nil {
		c.Logger.Warn("Gallery refresh failed, showing cached clips", "error", err)
	}

	clips := c.Poller.Gallery()
	if len(clips) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "🎞 No clips yet. Record something and the AI will cut the highlights.")
		return err
	}

	sort.SliceStable(clips, func(i, j int) bool { return clips[i].Score > clips[j].Score })
	if len(clips) > galleryLimit {
		clips = clips[:galleryLimit]
	}

	var b strings.Builder
	b.WriteString("🎞 Gallery\n")
	for _, clip := range clips {
		fmt.Fprintf(&b, "\n• %s (%s)\n  id: %s\n", clip.Title, formatter.FormatScore(clip.Score), clip.ID)
		for _, p := range domain.Platforms {
			if link := clip.SocialRefs[p]; link != "" {
				fmt.Fprintf(&b, "  %s: %s\n", p.Title(), link)
			}
		}
	}
	b.WriteString("\nPublish with /publish <clip_id> [caption]")

	_, err := c.Telegram.SendMessage(chatID, b.String())
	return err
}

func (c *CommandImpl) handlePublish(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "Usage: /publish <clip_id> [caption]")
		return err
	}
	clipID := fields[0]
	caption := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(args), clipID))

	clip, ok := c.findClip(clipID)
	if !ok {
		if err := c.Poller.PollGallery(ctx); err != nil {
			c.Logger.Warn("Gallery refresh failed", "error", err)
		}
		clip, ok = c.findClip(clipID)
	}
	if !ok {
		_, err := c.Telegram.SendMessage(chatID, "Clip not found. See /gallery for ids.")
		return err
	}

	connected, err := c.Social.Connected(ctx)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ Could not load connections: "+errors.GetMessage(err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	dialog := &publishDialog{
		clip:      clip,
		caption:   caption,
		selection: publish.NewSelection(clip.ID, connected),
		createdAt: c.now(),
	}
	messageID, err := c.Telegram.SendWithKeyboard(chatID, dialog.text(), dialog.keyboard())
	if err != nil {
		return err
	}

	c.storeDialog(messageID, dialog)
	return nil
}

func (c *CommandImpl) togglePlatform(_ context.Context, callbackID string, chatID int64, messageID int, raw string) {
	dialog := c.dialog(messageID)
	platform, err := domain.ParsePlatform(raw)
	if dialog == nil || err != nil {
		_ = c.Telegram.AnswerCallback(callbackID, "This dialog expired")
		return
	}

	if dialog.selection.Toggle(platform) == publish.ActionConnect {
		_ = c.Telegram.AnswerCallback(callbackID, platform.Title()+" is not connected")
		_, _ = c.Telegram.SendMessage(chatID, fmt.Sprintf("🔗 Connect %s first:\n/connect %s <client_id> <client_secret>", platform.Title(), platform))
		return
	}

	_ = c.Telegram.AnswerCallback(callbackID, "")
	_ = c.Telegram.EditMessageWithKeyboard(chatID, messageID, dialog.text(), dialog.keyboard())
}

func (c *CommandImpl) submitPublish(ctx context.Context, chatID int64, messageID int) {
	dialog := c.dialog(messageID)
	if dialog == nil {
		_ = c.Telegram.EditMessageText(chatID, messageID, "This dialog expired. Run /publish again.")
		return
	}

	platforms := dialog.selection.Selected()
	if len(platforms) == 0 {
		_, _ = c.Telegram.SendMessage(chatID, "Select at least one platform.")
		return
	}

	c.dropDialog(messageID)
	_ = c.Telegram.EditMessageText(chatID, messageID, fmt.Sprintf("🚀 Publishing \"%s\"... ⏳", dialog.clip.Title))

	report, err := c.Publisher.Publish(ctx, dialog.clip, platforms, dialog.caption)
	if err != nil {
		_ = c.Telegram.EditMessageText(chatID, messageID, "❌ Publish failed: "+errors.GetMessage(err))
		return
	}
	_ = c.Telegram.EditMessageText(chatID, messageID, renderReport(dialog.clip, report))
}

func renderReport(clip domain.GalleryClip, report publish.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Publish report for \"%s\"\n", clip.Title)
	for _, p := range report.Published {
		res := report.Results[p]
		fmt.Fprintf(&b, "✅ %s: %s\n", p.Title(), res.Link)
	}
	for _, p := range report.Reconnect {
		res := report.Results[p]
		fmt.Fprintf(&b, "❌ %s: %s\n   Reconnect with /connect %s <client_id> <client_secret>\n", p.Title(), res.Message, p)
	}
	for _, p := range report.NeedsConnect {
		fmt.Fprintf(&b, "🔗 %s is not connected: /connect %s <client_id> <client_secret>\n", p.Title(), p)
	}
	return b.String()
}

func (d *publishDialog) text() string {
	caption := d.caption
	if caption == "" {
		caption = d.clip.Title
	}
	return fmt.Sprintf("Publish \"%s\" (%s)\nCaption: %s\n\nChoose platforms:", d.clip.Title, formatter.FormatScore(d.clip.Score), caption)
}

func (d *publishDialog) keyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range domain.Platforms {
		mark := "⬜"
		switch {
		case !d.selection.IsConnected(p):
			mark = "🔗"
		case d.selection.IsSelected(p):
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+p.Title(), encodeCallback(actionToggle, string(p))),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚀 Publish", encodeCallback(actionSubmit, "")),
		tgbotapi.NewInlineKeyboardButtonData("✖ Cancel", encodeCallback(actionCancel, "")),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (c *CommandImpl) findClip(id string) (domain.GalleryClip, bool) {
	for _, clip := range c.Poller.Gallery() {
		if clip.ID == id {
			return clip, true
		}
	}
	return domain.GalleryClip{}, false
}

// storeDialog keeps at most maxDialogs open dialogs, dropping expired ones
// first and then the oldest.
func (c *CommandImpl) storeDialog(messageID int, dialog *publishDialog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, d := range c.dialogs {
		if now.Sub(d.createdAt) > dialogTTL {
			delete(c.dialogs, id)
		}
	}
	for len(c.dialogs) >= maxDialogs {
		oldestID, oldest := 0, now
		for id, d := range c.dialogs {
			if !d.createdAt.After(oldest) {
				oldestID, oldest = id, d.createdAt
			}
		}
		delete(c.dialogs, oldestID)
	}
	c.dialogs[messageID] = dialog
}

func (c *CommandImpl) dialog(messageID int) *publishDialog {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dialogs[messageID]
	if !ok {
		return nil
	}
	if c.now().Sub(d.createdAt) > dialogTTL {
		delete(c.dialogs, messageID)
		return nil
	}
	return d
}

func (c *CommandImpl) dropDialog(messageID int) {
	c.mu.Lock()
	delete(c.dialogs, messageID)
	c.mu.Unlock()
}
