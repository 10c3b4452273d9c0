package telegramimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/retry"
)

// Telegram rejects messages longer than this many characters.
const maxMessageLength = 4096

func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.TgBot.StopReceivingUpdates()
}

// SendMessage sends a message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	msg.DisableWebPagePreview = true
	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message",
			"chatID", chatID,
			"error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Debug("Message sent",
		"chatID", chatID,
		"messageID", sentMsg.MessageID)
	return sentMsg.MessageID, nil
}

func (tg *TelegramImpl) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = keyboard
	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending keyboard", "chatID", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sentMsg.MessageID, nil
}

func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, truncate(text))
	if _, err := tg.TgBot.Request(edit); err != nil {
		tg.Logger.Error("Error editing message", "chatID", chatID, "messageID", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, truncate(text), keyboard)
	if _, err := tg.TgBot.Request(edit); err != nil {
		// editing to identical content is reported as an error by Telegram
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		tg.Logger.Error("Error editing keyboard", "chatID", chatID, "messageID", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) DeleteMessage(chatID int64, messageID int) error {
	if _, err := tg.TgBot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		tg.Logger.Warn("Error deleting message", "chatID", chatID, "messageID", messageID, "error", err)
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// AnswerCallback removes the loading animation of a pressed button.
func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	// Request instead of Send, the answer is a bool rather than a Message
	if _, err := tg.TgBot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(ctx context.Context, text string) error {
	if tg.Config.Telegram.User == 0 {
		tg.Logger.Debug("No operator configured, notification dropped")
		return nil
	}

	err := retry.Do(ctx, tg.Logger, "SendMessageToUser", func() error {
		_, err := tg.SendMessage(tg.Config.Telegram.User, text)
		if rejected(err) {
			return retry.Permanent(err)
		}
		return err
	}, retry.DefaultConfig())
	if err != nil {
		tg.Logger.Error("Error sending message to user",
			"userID", tg.Config.Telegram.User,
			"error", err)
		return err
	}
	return nil
}

// rejected reports Telegram refusals a resend cannot fix, such as a bad
// request or a user who blocked the bot.
func rejected(err error) bool {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return false
	}
	return tgErr.Code == 400 || tgErr.Code == 403
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageLength {
		return text
	}
	return string(r[:maxMessageLength-1]) + "…"
}
