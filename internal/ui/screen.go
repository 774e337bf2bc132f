package ui

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/saravenpi/sibchat/internal/attachments"
	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/models"
)

type Options struct {
	User           string
	Locale         string
	FreezeAfter    time.Duration
	AttachmentsDir string
	Store          *attachments.Store
	Log            zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type focus int

const (
	focusList focus = iota
	focusComposer
)

type freezeTickMsg time.Time

const (
	listWidth    = 40
	headerHeight = 4
)

// ScreenModel is the whole chat screen: header, conversation list, thread,
// composer and the dialogs drawn on top of them.
type ScreenModel struct {
	state    chat.State
	opts     Options
	focus    focus
	list     list.Model
	viewport viewport.Model
	composer textinput.Model
	create   createDialog
	edit     editDialog
	stickers stickerPicker
	attach   attachPicker
	previews map[string]string
	err      error

	windowWidth  int
	windowHeight int
}

func NewScreenModel(state chat.State, opts Options) ScreenModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FreezeAfter <= 0 {
		opts.FreezeAfter = chat.FreezeThreshold
	}

	composer := textinput.New()
	composer.Placeholder = "Write a message..."
	composer.Prompt = "✎ "

	m := ScreenModel{
		state:        state,
		opts:         opts,
		viewport:     viewport.New(80, 20),
		composer:     composer,
		stickers:     newStickerPicker(60, 20),
		attach:       newAttachPicker(opts.AttachmentsDir),
		previews:     make(map[string]string),
		windowWidth:  120,
		windowHeight: 36,
	}
	m.list = newConversationList(m.delegate(), listWidth, 20)
	m.refreshList()
	m.resize()
	m.refreshThread()
	return m
}

func (m ScreenModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, freezeTick())
}

// State returns the current chat state.
func (m ScreenModel) State() chat.State {
	return m.state
}

// freezeTick only triggers a re-render; freezing is derived from the clock
// when the thread is drawn.
func freezeTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return freezeTickMsg(t)
	})
}

func (m ScreenModel) delegate() conversationDelegate {
	return conversationDelegate{
		selectedID: m.state.Selected,
		locale:     m.opts.Locale,
		now:        m.opts.Now,
	}
}

func (m *ScreenModel) refreshList() {
	index := m.list.Index()
	m.list.SetDelegate(m.delegate())
	m.list.SetItems(conversationItems(m.state.Conversations(m.state.ActiveTab)))
	if index < len(m.list.Items()) {
		m.list.Select(index)
	}
}

func (m *ScreenModel) refreshThread() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderThread(m.state.Messages(), threadOptions{
		width:       m.viewport.Width,
		now:         m.opts.Now(),
		freezeAfter: m.opts.FreezeAfter,
		locale:      m.opts.Locale,
		previews:    m.previews,
	}))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *ScreenModel) resize() {
	bodyHeight := m.windowHeight - headerHeight - 2
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.list.SetSize(listWidth, bodyHeight)

	threadWidth := m.windowWidth - listWidth - 4
	if threadWidth < 20 {
		threadWidth = 20
	}
	chatHeaderHeight, composerHeight := 3, 2
	m.viewport.Width = threadWidth
	m.viewport.Height = bodyHeight - chatHeaderHeight - composerHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.composer.Width = threadWidth - 4

	m.stickers = m.stickers.setSize(m.windowWidth-4, bodyHeight)
}

func (m ScreenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.resize()
		m.refreshThread()
		var cmd tea.Cmd
		m.attach, _, cmd = m.attach.Update(msg)
		return m, cmd

	case freezeTickMsg:
		m.refreshThread()
		return m, freezeTick()

	case attachmentAcquiredMsg:
		m.attach.loading = false
		if msg.err != nil {
			m.opts.Log.Warn().Err(msg.err).Msg("attachment failed")
			m.err = msg.err
			m.state = m.state.CloseDialog()
			return m, nil
		}
		m.state = m.state.Attach(msg.ref, m.opts.Now())
		if msg.preview != "" {
			previews := maps.Clone(m.previews)
			previews[msg.ref.ID] = msg.preview
			m.previews = previews
		}
		m.opts.Log.Debug().Str("attachment", msg.ref.ID).Str("kind", models.KindForMediaType(msg.ref.MediaType).String()).Msg("attachment sent")
		m.refreshThread()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state.Dialog {
		case chat.DialogCreate:
			return m.updateCreate(msg)
		case chat.DialogEdit:
			return m.updateEdit(msg)
		case chat.DialogStickers:
			return m.updateStickers(msg)
		case chat.DialogAttach:
			return m.updateAttach(msg)
		}
		if m.focus == focusComposer {
			return m.updateComposer(msg)
		}
		return m.updateList(msg)
	}

	return m.forward(msg)
}

// forward hands non-key messages (cursor blinks, directory reads, spinner
// ticks) to whichever component is active.
func (m ScreenModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.Dialog {
	case chat.DialogCreate:
		m.create, cmd = m.create.Update(msg)
	case chat.DialogEdit:
		m.edit, cmd = m.edit.Update(msg)
	case chat.DialogAttach:
		var path string
		m.attach, path, cmd = m.attach.Update(msg)
		if path != "" {
			cmd = tea.Batch(cmd, acquireCmd(m.opts.Store, path))
		}
	default:
		if m.focus == focusComposer {
			m.composer, cmd = m.composer.Update(msg)
		}
	}
	return m, cmd
}

func (m ScreenModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		return m, nil

	case "tab", "shift+tab":
		m.state = m.state.SwitchTab(m.state.ActiveTab.Other())
		m.list.Select(0)
		m.refreshList()
		return m, nil

	case "n", "a":
		m.state = m.state.OpenDialog(chat.DialogCreate)
		m.create = newCreateDialog(m.state.ActiveTab, m.windowWidth)
		return m, textinput.Blink

	case "e":
		conv, ok := m.state.SelectedConversation()
		if !ok {
			return m, nil
		}
		m.state = m.state.OpenDialog(chat.DialogEdit)
		m.edit = newEditDialog(conv, m.windowWidth)
		return m, textinput.Blink

	case "enter":
		item, ok := m.list.SelectedItem().(conversationItem)
		if !ok {
			return m, nil
		}
		m.state = m.state.SelectConversation(item.conv.ID)
		m.opts.Log.Debug().Str("conversation", item.conv.ID).Msg("conversation selected")
		m.refreshList()
		m.focus = focusComposer
		m.err = nil
		return m, m.composer.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ScreenModel) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.composer.Blur()
		return m, nil

	case "enter":
		next, ok := m.state.Send(m.opts.Now())
		if !ok {
			return m, nil
		}
		m.state = next
		m.composer.Reset()
		m.opts.Log.Debug().Int("messages", len(m.state.Messages())).Msg("message sent")
		m.refreshThread()
		m.viewport.GotoBottom()
		return m, nil

	case "ctrl+s":
		m.state = m.state.OpenDialog(chat.DialogStickers)
		return m, nil

	case "ctrl+o":
		m.state = m.state.OpenDialog(chat.DialogAttach)
		m.err = nil
		m.attach = newAttachPicker(m.opts.AttachmentsDir)
		var sizeCmd tea.Cmd
		m.attach, _, sizeCmd = m.attach.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight - headerHeight - 4})
		return m, tea.Batch(m.attach.Init(), sizeCmd)

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "ctrl+e":
		conv, ok := m.state.SelectedConversation()
		if !ok {
			return m, nil
		}
		m.state = m.state.OpenDialog(chat.DialogEdit)
		m.edit = newEditDialog(conv, m.windowWidth)
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.state = m.state.SetDraft(m.composer.Value())
	return m, cmd
}

func (m ScreenModel) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = m.state.CloseDialog()
		return m, nil

	case "enter", "ctrl+s":
		next, ok := m.state.CreateConversation(m.create.name(), m.opts.Now())
		if !ok {
			return m, nil
		}
		m.state = next
		m.opts.Log.Debug().Str("tab", m.state.ActiveTab.String()).Str("name", m.create.name()).Msg("conversation created")
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.create, cmd = m.create.Update(msg)
	return m, cmd
}

func (m ScreenModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = m.state.CloseDialog()
		return m, nil

	case "ctrl+s":
		m.state = m.state.CommitEdit(m.edit.edit())
		return m, nil

	case "enter":
		// Enter is a newline inside the description.
		if m.edit.focusIndex != editFocusDescription {
			m.state = m.state.CommitEdit(m.edit.edit())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m ScreenModel) updateStickers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.state = m.state.CloseDialog()
		return m, nil

	case "enter":
		sticker, ok := m.stickers.selected()
		if !ok {
			return m, nil
		}
		m.state = m.state.SendSticker(sticker.Name, m.opts.Now())
		m.opts.Log.Debug().Str("sticker", sticker.Name).Msg("sticker sent")
		m.refreshThread()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.stickers, cmd = m.stickers.Update(msg)
	return m, cmd
}

func (m ScreenModel) updateAttach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && !m.attach.loading {
		m.state = m.state.CloseDialog()
		return m, nil
	}
	return m.forward(msg)
}

func (m ScreenModel) headerView() string {
	chatsLabel, groupsLabel := tabStyle.Render("💬 Chats"), tabStyle.Render("👥 Groups")
	if m.state.ActiveTab == models.TabGroups {
		groupsLabel = activeTabStyle.Render("👥 Groups")
	} else {
		chatsLabel = activeTabStyle.Render("💬 Chats")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("❄ SibCHAT"), "  ",
		weatherStyle.Render("❄ -18°C Novosibirsk"), "  ",
		chatsLabel, " ", groupsLabel,
	)
	profile := statusStyle.Render("🟢 " + m.opts.User)

	gap := m.windowWidth - lipgloss.Width(left) - lipgloss.Width(profile)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + profile
}

func (m ScreenModel) chatHeaderView(conv models.Conversation) string {
	status := "last seen recently"
	switch conv.Status {
	case models.StatusOnline:
		status = "online"
	case models.StatusFrozen:
		status = "frozen"
	}
	if conv.IsGroup() {
		status += fmt.Sprintf(" • %d participants", len(conv.Participants))
	}

	dot := lipgloss.NewStyle().Foreground(statusColors[conv.Status.String()]).Render("●")
	return avatarStyle.Render(conv.Avatar) + " " + titleStyle.Render(conv.Name) + "\n" +
		"   " + dot + " " + helpStyle.Render(status)
}

func (m ScreenModel) emptyView() string {
	what, whats := "chat", "chats"
	if m.state.ActiveTab == models.TabGroups {
		what, whats = "group", "groups"
	}
	s := "\n\n" + titleStyle.Render("💬 Select a "+what) + "\n\n"
	s += normalStyle.Render("Start chatting Siberian style") + "\n\n"
	s += frostStyle.Render(fmt.Sprintf("❄️ Frost-proof %s are waiting for you", whats))
	return lipgloss.NewStyle().Width(m.viewport.Width).Align(lipgloss.Center).Render(s)
}

func (m ScreenModel) threadView() string {
	conv, ok := m.state.SelectedConversation()
	if !ok {
		return m.emptyView()
	}

	s := m.chatHeaderView(conv) + "\n"
	if len(m.state.Messages()) == 0 {
		s += normalStyle.Render("  No messages yet.") + "\n"
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	if m.focus == focusComposer {
		s += inputStyle.Render(m.composer.View())
	} else {
		s += blurredStyle.Render(m.composer.View())
	}
	return s
}

func (m ScreenModel) helpView() string {
	if m.focus == focusComposer {
		scrollPercent := int(m.viewport.ScrollPercent() * 100)
		return helpStyle.Render(fmt.Sprintf("enter: send • ctrl+s: stickers • ctrl+o: attach • ctrl+e: edit • pgup/pgdn: scroll • esc: back • ctrl+c: quit • %d%%", scrollPercent))
	}
	return helpStyle.Render("↑↓/jk: navigate • enter: open • tab: chats/groups • n: new • e: edit • q: quit")
}

func (m ScreenModel) View() string {
	header := m.headerView() + "\n\n"

	switch m.state.Dialog {
	case chat.DialogCreate:
		return header + m.create.View()
	case chat.DialogEdit:
		return header + m.edit.View()
	case chat.DialogStickers:
		return header + m.stickers.View()
	case chat.DialogAttach:
		return header + m.attach.View()
	}

	left := paneStyle.Width(listWidth).Render(m.list.View())
	right := lipgloss.NewStyle().PaddingLeft(1).Render(m.threadView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return header + body + "\n" + m.helpView()
}
