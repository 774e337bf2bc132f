package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/models"
)

type threadOptions struct {
	width       int
	now         time.Time
	freezeAfter time.Duration
	locale      string
	// previews maps attachment ids to a first-line text preview.
	previews map[string]string
}

func timeLayout(locale string) string {
	if locale == "en" {
		return "3:04 PM"
	}
	return "15:04"
}

// renderThread lays out every message in stored order, own messages on the
// right.
func renderThread(messages []models.Message, opts threadOptions) string {
	wrapWidth := opts.width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	var content strings.Builder
	for i, message := range messages {
		if i > 0 {
			content.WriteString("\n")
		}

		freezing := chat.Freezing(message, opts.now, opts.freezeAfter)
		timestamp := message.CreatedAt.Format(timeLayout(opts.locale))

		if message.FromMe() {
			tick := "✓"
			if message.Read {
				tick = "✓✓"
			}
			header := messageHeaderStyle.Render(fmt.Sprintf("You • %s %s", timestamp, tick))
			content.WriteString(alignRight(header, wrapWidth) + "\n")
			for _, line := range renderBody(message, wrapWidth, opts) {
				content.WriteString(alignRight(messageFromMeStyle.Render(line), wrapWidth) + "\n")
			}
			continue
		}

		sender := message.Sender
		if sender == "" {
			sender = "Unknown"
		}
		header := fmt.Sprintf("%s • %s", sender, timestamp)
		bodyStyle := messageFromOtherStyle
		if freezing {
			header = "❄ " + header + " • freezing"
			bodyStyle = frostStyle
		}
		content.WriteString(messageHeaderStyle.Render(header) + "\n")
		for _, line := range renderBody(message, wrapWidth, opts) {
			content.WriteString(bodyStyle.Render(line) + "\n")
		}
	}

	return content.String()
}

func alignRight(s string, width int) string {
	return lipgloss.NewStyle().Align(lipgloss.Right).Width(width).Render(s)
}

func renderBody(message models.Message, width int, opts threadOptions) []string {
	switch b := message.Body.(type) {
	case models.TextBody:
		return []string{wordwrap.String(b.Text, width-10)}
	case models.StickerBody:
		label := b.Name
		if s, ok := chat.LookupSticker(b.Name); ok {
			label = s.Label
		}
		return []string{fmt.Sprintf("%s  %s", chat.StickerEmoji(b.Name), label)}
	case models.ImageBody:
		return attachmentLines("🖼", b.Attachment)
	case models.VideoBody:
		return attachmentLines("🎬", b.Attachment)
	case models.DocumentBody:
		lines := []string{fmt.Sprintf("📄 %s • %s", b.Attachment.Name, chat.FormatFileSize(b.Attachment.Size, opts.locale))}
		if preview := opts.previews[b.Attachment.ID]; preview != "" {
			lines = append(lines, fmt.Sprintf("  “%s”", preview))
		}
		return lines
	}
	return nil
}

func attachmentLines(icon string, a models.Attachment) []string {
	lines := []string{fmt.Sprintf("%s %s", icon, a.Name)}
	if a.URL != "" {
		lines = append(lines, a.URL)
	}
	return lines
}
