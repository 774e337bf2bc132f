package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/saravenpi/sibchat/internal/chat"
)

type stickerItem struct {
	sticker chat.Sticker
}

func (i stickerItem) FilterValue() string { return i.sticker.Name }
func (i stickerItem) Title() string       { return i.sticker.Emoji + "  " + i.sticker.Label }
func (i stickerItem) Description() string { return i.sticker.Name }

type stickerPicker struct {
	list list.Model
}

func newStickerPicker(width, height int) stickerPicker {
	items := lo.Map(chat.Stickers(), func(s chat.Sticker, _ int) list.Item {
		return stickerItem{sticker: s}
	})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(items, delegate, width, height)
	l.Title = "Stickers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return stickerPicker{list: l}
}

func (p stickerPicker) selected() (chat.Sticker, bool) {
	item, ok := p.list.SelectedItem().(stickerItem)
	if !ok {
		return chat.Sticker{}, false
	}
	return item.sticker, true
}

func (p stickerPicker) setSize(width, height int) stickerPicker {
	p.list.SetWidth(width)
	p.list.SetHeight(height)
	return p
}

func (p stickerPicker) Update(msg tea.Msg) (stickerPicker, tea.Cmd) {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p stickerPicker) View() string {
	return p.list.View() + "\n" + helpStyle.Render("↑↓/jk: choose • enter: send • esc: close")
}
