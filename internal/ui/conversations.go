package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/saravenpi/sibchat/internal/models"
)

type conversationItem struct {
	conv models.Conversation
}

func (i conversationItem) FilterValue() string { return i.conv.Name }
func (i conversationItem) Title() string       { return i.conv.Name }
func (i conversationItem) Description() string { return i.conv.LastMessage }

var timeAgoLabels = map[string]struct {
	justNow, minutes, hours, yesterday, days string
}{
	"en": {"just now", "%dm ago", "%dh ago", "yesterday", "%dd ago"},
	"ru": {"только что", "%d мин", "%d ч", "вчера", "%d дн"},
}

func formatTimeAgo(t, now time.Time, locale string) string {
	labels, ok := timeAgoLabels[locale]
	if !ok {
		labels = timeAgoLabels["en"]
	}
	if t.IsZero() {
		return ""
	}

	duration := now.Sub(t)

	if duration < time.Minute {
		return labels.justNow
	}
	if duration < time.Hour {
		return fmt.Sprintf(labels.minutes, int(duration.Minutes()))
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf(labels.hours, int(duration.Hours()))
	}
	if duration < 48*time.Hour {
		return labels.yesterday
	}
	if duration < 7*24*time.Hour {
		return fmt.Sprintf(labels.days, int(duration.Hours()/24))
	}
	return t.Format("02.01")
}

// conversationDelegate draws a two-line row per conversation: avatar,
// status dot, name and time, then the preview and unread badge.
type conversationDelegate struct {
	selectedID string
	locale     string
	now        func() time.Time
}

func (d conversationDelegate) Height() int                             { return 2 }
func (d conversationDelegate) Spacing() int                            { return 1 }
func (d conversationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conversationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(conversationItem)
	if !ok {
		return
	}
	c := ci.conv
	width := m.Width()
	if width <= 0 {
		width = 40
	}

	cursor := "  "
	nameStyle := normalStyle
	if index == m.Index() {
		cursor = selectedStyle.Render("▌ ")
		nameStyle = selectedStyle
	}
	if c.ID == d.selectedID {
		nameStyle = nameStyle.Underline(true)
	}

	dot := lipgloss.NewStyle().Foreground(statusColors[c.Status.String()]).Render("●")
	name := c.Name
	if c.IsGroup() {
		name = "👥 " + name
	}
	when := messageHeaderStyle.Render(formatTimeAgo(c.LastTime, d.now(), d.locale))

	left := fmt.Sprintf("%s%s%s %s", cursor, avatarStyle.Render(c.Avatar), dot, nameStyle.Render(name))
	gap := width - lipgloss.Width(left) - lipgloss.Width(when)
	if gap < 1 {
		gap = 1
	}
	top := left + strings.Repeat(" ", gap) + when

	badge := ""
	if c.UnreadCount > 0 {
		badge = unreadBadgeStyle.Render(fmt.Sprint(c.UnreadCount))
	}
	indent := "      "
	previewWidth := width - len(indent) - lipgloss.Width(badge) - 1
	preview := truncate(c.LastMessage, previewWidth)
	bottom := indent + helpStyle.Render(preview)
	if badge != "" {
		gap := width - lipgloss.Width(bottom) - lipgloss.Width(badge)
		if gap < 1 {
			gap = 1
		}
		bottom += strings.Repeat(" ", gap) + badge
	}

	fmt.Fprint(w, top+"\n"+bottom)
}

func truncate(s string, width int) string {
	if width <= 3 {
		return ""
	}
	runes := []rune(s)
	if lipgloss.Width(s) <= width {
		return s
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func conversationItems(convs []models.Conversation) []list.Item {
	return lo.Map(convs, func(c models.Conversation, _ int) list.Item {
		return conversationItem{conv: c}
	})
}

func newConversationList(d conversationDelegate, width, height int) list.Model {
	l := list.New([]list.Item{}, d, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
