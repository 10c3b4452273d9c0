package commandimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
)

func (c *CommandImpl) handleConnect(ctx context.Context, msg *tgbotapi.Message, args string) error {
	chatID := msg.Chat.ID
	fields := strings.Fields(args)

	// the message carries a client secret
	if len(fields) > 1 {
		_ = c.Telegram.DeleteMessage(chatID, msg.MessageID)
	}

	if len(fields) != 3 {
		_, err := c.Telegram.SendMessage(chatID, "Usage: /connect <platform> <client_id> <client_secret>\nPlatforms: youtube, instagram, twitter, tiktok")
		return err
	}

	platform, err := domain.ParsePlatform(fields[0])
	if err != nil {
		_, err := c.Telegram.SendMessage(chatID, "Unknown platform. Use youtube, instagram, twitter or tiktok.")
		return err
	}

	authURL, err := c.Social.InitConnection(ctx, platform, fields[1], fields[2])
	if err != nil {
		text := fmt.Sprintf("❌ Could not start %s authorization: %s", platform.Title(), errors.GetMessage(err))
		if errors.IsValidation(err) && !c.Session.Authenticated() {
			text = "🔒 Sign in first: /login <token>"
		}
		_, sendErr := c.Telegram.SendMessage(chatID, text)
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Authorize "+platform.Title(), authURL),
		),
	)
	_, err = c.Telegram.SendWithKeyboard(chatID,
		fmt.Sprintf("🔗 Open the link to authorize %s. I'll let you know when the connection is ready.\n\nRedirect URI registered with your app: %s",
			platform.Title(), c.Config.CallbackURL()),
		keyboard)
	return err
}

func (c *CommandImpl) handleDisconnect(chatID int64, args string) error {
	platform, err := domain.ParsePlatform(args)
	if err != nil {
		_, err := c.Telegram.SendMessage(chatID, "Usage: /disconnect <platform>")
		return err
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, disconnect", encodeCallback(actionDisconnect, string(platform))),
			tgbotapi.NewInlineKeyboardButtonData("Keep", encodeCallback(actionKeep, "")),
		),
	)
	_, err = c.Telegram.SendWithKeyboard(chatID, fmt.Sprintf("Disconnect %s? Stored tokens will be deleted.", platform.Title()), keyboard)
	return err
}

func (c *CommandImpl) confirmDisconnect(ctx context.Context, chatID int64, messageID int, raw string) {
	platform, err := domain.ParsePlatform(raw)
	if err != nil {
		return
	}

	if err := c.Social.Disconnect(ctx, platform); err != nil {
		_ = c.Telegram.EditMessageText(chatID, messageID, fmt.Sprintf("❌ Failed to disconnect %s: %s", platform.Title(), errors.GetMessage(err)))
		return
	}
	_ = c.Telegram.EditMessageText(chatID, messageID, fmt.Sprintf("✅ %s disconnected.", platform.Title()))
}

func (c *CommandImpl) handleConnections(ctx context.Context, chatID int64) error {
	connected, err := c.Social.RefreshConnections(ctx)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ Could not load connections: "+errors.GetMessage(err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	isConnected := make(map[domain.Platform]bool, len(connected))
	for _, p := range connected {
		isConnected[p] = true
	}

	var b strings.Builder
	b.WriteString("🔌 Connections\n")
	for _, p := range domain.Platforms {
		state := c.Social.State(p)
		mark := "⬜"
		switch {
		case isConnected[p]:
			mark = "✅"
		case state == domain.StateAwaitingProviderRedirect || state == domain.StateFinalizing:
			mark = "⏳"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", mark, p.Title(), state)
	}
	_, err = c.Telegram.SendMessage(chatID, b.String())
	return err
}

func (c *CommandImpl) handleLogin(ctx context.Context, msg *tgbotapi.Message, args string) error {
	chatID := msg.Chat.ID
	token := strings.TrimSpace(args)
	if token == "" {
		_, err := c.Telegram.SendMessage(chatID, "Usage: /login <token>")
		return err
	}
	_ = c.Telegram.DeleteMessage(chatID, msg.MessageID)

	user, err := c.Session.Login(token)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ Sign-in failed: "+err.Error())
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	who := user.ID
	if user.Email != "" {
		who = user.Email
	}
	if _, err := c.Social.RefreshConnections(ctx); err != nil {
		c.Logger.Warn("Failed to refresh connections after login", "error", err)
	}
	_, err = c.Telegram.SendMessage(chatID, "👋 Signed in as "+who+".")
	return err
}

func (c *CommandImpl) handleLogout(chatID int64) error {
	c.Session.Logout()
	_, err := c.Telegram.SendMessage(chatID, "Signed out. New segments are uploaded as offline-user.")
	return err
}

func (c *CommandImpl) handleSchedule(chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📅 Book a demo", c.Config.Backend.SchedulingURL),
		),
	)
	_, err := c.Telegram.SendWithKeyboard(chatID, "Talk to the DirectorFlow team:", keyboard)
	return err
}
