package commandimpl

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `🎬 DirectorFlow agent

CAMERA:
/camera front|rear|off - Turn the camera on or off
/flip - Switch between front and rear camera
/quality standard|lite - Standard 1080p, 120s segments. Lite 480p, 15s segments
/autopublish on|off - Let the AI publish the best clips
/record - Start recording and streaming segments
/stop - Finish the current segment and stop
/status - Camera, recording and account state

CLIPS:
/logs - Latest activity
/gallery - Generated clips
/publish <clip_id> [caption] - Publish a clip to connected platforms

ACCOUNTS:
/connect <platform> <client_id> <client_secret> - Connect youtube, instagram, twitter or tiktok
/disconnect <platform> - Remove a connection
/connections - Connected platforms
/login <token> - Sign in with your DirectorFlow token
/logout - Sign out
/schedule - Book a demo

Type /help at any time to see this guide.`

// callbackData is the payload of inline keyboard buttons. Telegram limits it to 64 bytes.
type callbackData struct {
	Action   string `json:"a"`
	Platform string `json:"p,omitempty"`
}

const (
	actionToggle     = "tg"
	actionSubmit     = "pub"
	actionCancel     = "x"
	actionDisconnect = "dc"
	actionKeep       = "keep"
)

func encodeCallback(action, platform string) string {
	b, _ := json.Marshal(callbackData{Action: action, Platform: platform})
	return string(b)
}

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly. Restarting handler...")
				return errors.New("telegram updates channel closed")
			}

			go c.handleUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if u.CallbackQuery != nil {
		if !c.authorized(u.CallbackQuery.From) {
			_ = c.Telegram.AnswerCallback(u.CallbackQuery.ID, "Not allowed")
			return
		}
		c.handleCallback(ctx, u.CallbackQuery)
		return
	}

	if u.Message == nil || !u.Message.IsCommand() {
		return
	}

	chatID := u.Message.Chat.ID
	if !c.authorized(u.Message.From) {
		c.Logger.Warn("Command from unknown user ignored", "chatID", chatID)
		_, _ = c.Telegram.SendMessage(chatID, "⛔ This bot is private.")
		return
	}
	if !c.Limiter.Allow(chatID) {
		_, _ = c.Telegram.SendMessage(chatID, "⏳ Too many commands, slow down a little.")
		return
	}

	c.Logger.Info("Command received", "command", u.Message.Command(), "chatID", chatID)
	if err := c.processCommand(ctx, u.Message); err != nil {
		c.Logger.Error("Error processing command",
			"command", u.Message.Command(),
			"error", err)
	}
}

// authorized serves only the configured operator. Without one, everyone is served.
func (c *CommandImpl) authorized(from *tgbotapi.User) bool {
	if c.Config.Telegram.User == 0 {
		return true
	}
	return from != nil && from.ID == c.Config.Telegram.User
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message) error {
	command := msg.Command()
	args := msg.CommandArguments()
	chatID := msg.Chat.ID

	switch command {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "camera":
		return c.handleCamera(ctx, chatID, args)
	case "flip":
		return c.handleFlip(ctx, chatID)
	case "quality":
		return c.handleQuality(ctx, chatID, args)
	case "autopublish":
		return c.handleAutoPublish(chatID, args)
	case "record":
		return c.handleRecord(chatID)
	case "stop":
		return c.handleStop(chatID)
	case "status":
		return c.handleStatus(ctx, chatID)
	case "logs":
		return c.handleLogs(chatID)
	case "gallery":
		return c.handleGallery(ctx, chatID)
	case "publish":
		return c.handlePublish(ctx, chatID, args)
	case "connect":
		return c.handleConnect(ctx, msg, args)
	case "disconnect":
		return c.handleDisconnect(chatID, args)
	case "connections":
		return c.handleConnections(ctx, chatID)
	case "login":
		return c.handleLogin(ctx, msg, args)
	case "logout":
		return c.handleLogout(chatID)
	case "schedule":
		return c.handleSchedule(chatID)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}

func (c *CommandImpl) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	var data callbackData
	if err := json.Unmarshal([]byte(q.Data), &data); err != nil {
		c.Logger.Error("Failed to unmarshal callback data", "error", err)
		_ = c.Telegram.AnswerCallback(q.ID, "")
		return
	}
	if q.Message == nil {
		_ = c.Telegram.AnswerCallback(q.ID, "")
		return
	}

	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID

	switch data.Action {
	case actionToggle:
		c.togglePlatform(ctx, q.ID, chatID, messageID, data.Platform)
	case actionSubmit:
		_ = c.Telegram.AnswerCallback(q.ID, "Publishing...")
		c.submitPublish(ctx, chatID, messageID)
	case actionCancel:
		_ = c.Telegram.AnswerCallback(q.ID, "")
		c.dropDialog(messageID)
		_ = c.Telegram.EditMessageText(chatID, messageID, "Cancelled.")
	case actionDisconnect:
		_ = c.Telegram.AnswerCallback(q.ID, "")
		c.confirmDisconnect(ctx, chatID, messageID, data.Platform)
	case actionKeep:
		_ = c.Telegram.AnswerCallback(q.ID, "")
		_ = c.Telegram.EditMessageText(chatID, messageID, "Connection kept.")
	default:
		_ = c.Telegram.AnswerCallback(q.ID, "")
	}
}
