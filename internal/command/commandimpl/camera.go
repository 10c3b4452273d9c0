package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/errors"
	"github.com/orgball2608/directorflow-agent/pkg/formatter"
)

func (c *CommandImpl) handleCamera(ctx context.Context, chatID int64, args string) error {
	arg := strings.ToLower(strings.TrimSpace(args))
	if arg == "off" {
		c.Capture.DeactivateCamera()
		_, err := c.Telegram.SendMessage(chatID, "📷 Camera off.")
		return err
	}

	facing, err := domain.ParseFacing(arg)
	if err != nil {
		_, err := c.Telegram.SendMessage(chatID, "Usage: /camera front|rear|off")
		return err
	}

	status, err := c.Capture.ActivateCamera(ctx, facing)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ Camera error: "+errors.GetMessage(err)+"\nCheck the device and try again.")
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("📷 %s camera ready (%s).", title(status.Facing.String()), describeMode(status.Mode)))
	return err
}

func (c *CommandImpl) handleFlip(ctx context.Context, chatID int64) error {
	status, err := c.Capture.SwitchFacing(ctx)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ "+errors.GetMessage(err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}
	_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("🔄 Switched to the %s camera.", status.Facing))
	return err
}

func (c *CommandImpl) handleQuality(ctx context.Context, chatID int64, args string) error {
	mode, err := domain.ParseQualityMode(args)
	if err != nil {
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Usage: /quality standard|lite\nCurrent: %s", describeMode(c.Capture.QualityMode())))
		return err
	}

	if err := c.Capture.SetQualityMode(ctx, mode); err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ Camera restart failed: "+errors.GetMessage(err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	_, err = c.Telegram.SendMessage(chatID, "⚙️ Quality set to "+describeMode(mode)+".")
	return err
}

func (c *CommandImpl) handleAutoPublish(chatID int64, args string) error {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "true", "yes":
		enabled = true
	case "off", "false", "no":
		enabled = false
	default:
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Usage: /autopublish on|off\nCurrent: %s", onOff(c.Capture.AutoPublish())))
		return err
	}

	c.Capture.SetAutoPublish(enabled)
	msg := "🤖 Auto-publish off. Clips wait in the gallery."
	if enabled {
		msg = "🤖 Auto-publish on. The best clips go out to your connected platforms."
	}
	_, err := c.Telegram.SendMessage(chatID, msg)
	return err
}

func (c *CommandImpl) handleRecord(chatID int64) error {
	if !c.Capture.StartRecording() {
		msg := "Already recording."
		if !c.Capture.Status().Active {
			msg = "Turn the camera on first: /camera front"
		}
		_, err := c.Telegram.SendMessage(chatID, msg)
		return err
	}

	profile := c.Capture.QualityMode().Profile()
	_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("🔴 Recording. A segment is uploaded every %s.", formatter.FormatDuration(profile.SegmentDuration)))
	return err
}

func (c *CommandImpl) handleStop(chatID int64) error {
	status := c.Capture.Status()
	if !status.Recording {
		_, err := c.Telegram.SendMessage(chatID, "Not recording.")
		return err
	}

	sentMsgID, err := c.Telegram.SendMessage(chatID, "⏹ Finishing the last segment... ⏳")
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lastRecording = status.RecordingID
	c.mu.Unlock()
	c.Capture.StopRecording()
	return c.Telegram.EditMessageText(chatID, sentMsgID, "⏹ Recording stopped. The last segment is uploading.")
}

func (c *CommandImpl) handleStatus(ctx context.Context, chatID int64) error {
	status := c.Capture.Status()

	var b strings.Builder
	b.WriteString("📊 Status\n")
	if status.Active {
		fmt.Fprintf(&b, "Camera: %s\n", status.Facing)
	} else {
		b.WriteString("Camera: off\n")
	}
	fmt.Fprintf(&b, "Quality: %s\n", describeMode(status.Mode))
	if status.Recording {
		fmt.Fprintf(&b, "Recording: yes, segment %d\n", status.SegmentIndex)
	} else {
		b.WriteString("Recording: no\n")
	}
	if summary := c.uploadSummary(ctx, status); summary != "" {
		b.WriteString(summary)
	}
	fmt.Fprintf(&b, "Auto-publish: %s\n", onOff(c.Capture.AutoPublish()))

	if user, ok := c.Session.Current(); ok {
		who := user.ID
		if user.Email != "" {
			who = user.Email
		}
		fmt.Fprintf(&b, "Signed in: %s\n", who)
	} else {
		b.WriteString("Signed in: no (offline mode)\n")
	}

	connected, err := c.Social.Connected(ctx)
	if err != nil {
		b.WriteString("Connections: unavailable\n")
	} else {
		fmt.Fprintf(&b, "Connections: %s\n", platformList(connected))
	}

	_, err = c.Telegram.SendMessage(chatID, b.String())
	return err
}

// uploadSummary counts the ledger rows of the running or last stopped recording.
func (c *CommandImpl) uploadSummary(ctx context.Context, status domain.SessionStatus) string {
	recordingID := status.RecordingID
	if recordingID == "" {
		c.mu.Lock()
		recordingID = c.lastRecording
		c.mu.Unlock()
	}
	if recordingID == "" || c.Ledger == nil {
		return ""
	}

	records, err := c.Ledger.GetByRecordingID(ctx, recordingID)
	if err != nil {
		c.Logger.Warn("Failed to read segment ledger", "recording", recordingID, "error", err)
		return ""
	}
	var sent, failed int
	for _, r := range records {
		if r.Status == domain.SegmentFailed {
			failed++
		} else {
			sent++
		}
	}
	return fmt.Sprintf("Uploads: %d sent, %d failed\n", sent, failed)
}

func describeMode(m domain.QualityMode) string {
	p := m.Profile()
	return fmt.Sprintf("%s %dx%d@%d, %s segments", m, p.Width, p.Height, p.FrameRate, formatter.FormatDuration(p.SegmentDuration))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func platformList(platforms []domain.Platform) string {
	if len(platforms) == 0 {
		return "none"
	}
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Title())
	}
	return strings.Join(names, ", ")
}
