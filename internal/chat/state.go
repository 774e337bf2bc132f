package chat

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/saravenpi/sibchat/internal/models"
)

type Dialog int

const (
	DialogNone Dialog = iota
	DialogCreate
	DialogEdit
	DialogStickers
	DialogAttach
)

// Seed is the initial content of a session.
type Seed struct {
	Chats    []models.Conversation
	Groups   []models.Conversation
	Messages []models.Message
}

// Edit is what the edit dialog submits. CommitEdit accepts it but does not
// write it back to the collections.
type Edit struct {
	ConversationID string
	Name           string
	Description    string
	Participants   []string
}

// State owns every collection of a session plus the UI-only fields. All
// transitions use value receivers and return the next state; the receiver
// is never mutated.
//
// Messages are one global list shared by all conversations.
type State struct {
	messages     map[string]models.Message
	messageOrder []string
	chats        map[string]models.Conversation
	chatOrder    []string
	groups       map[string]models.Conversation
	groupOrder   []string

	Selected  string
	ActiveTab models.Tab
	Dialog    Dialog
	Draft     string
}

func New(seed Seed) State {
	s := State{
		messages: make(map[string]models.Message, len(seed.Messages)),
		chats:    make(map[string]models.Conversation, len(seed.Chats)),
		groups:   make(map[string]models.Conversation, len(seed.Groups)),
	}
	for _, c := range seed.Chats {
		s.chats[c.ID] = c
		s.chatOrder = append(s.chatOrder, c.ID)
	}
	// A chat record may itself be a group; the groups collection only holds
	// groups, and TypeChat is the zero value.
	for _, g := range seed.Groups {
		g.Type = models.TypeGroup
		s.groups[g.ID] = g
		s.groupOrder = append(s.groupOrder, g.ID)
	}
	for _, m := range seed.Messages {
		s.messages[m.ID] = m
		s.messageOrder = append(s.messageOrder, m.ID)
	}
	return s
}

// clone copies the collections so the returned state can be changed freely.
func (s State) clone() State {
	s.messages = cloneMap(s.messages)
	s.messageOrder = slices.Clone(s.messageOrder)
	s.chats = cloneMap(s.chats)
	s.chatOrder = slices.Clone(s.chatOrder)
	s.groups = cloneMap(s.groups)
	s.groupOrder = slices.Clone(s.groupOrder)
	return s
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return make(map[string]V)
	}
	return maps.Clone(m)
}

// newID derives an id from the creation time, bumping it past any id already
// taken in this session.
func (s State) newID(now time.Time) string {
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !s.taken(id) {
			return id
		}
		n++
	}
}

func (s State) taken(id string) bool {
	if _, ok := s.messages[id]; ok {
		return true
	}
	if _, ok := s.chats[id]; ok {
		return true
	}
	_, ok := s.groups[id]
	return ok
}

func (s State) appendMessage(sender string, body models.Body, now time.Time) State {
	next := s.clone()
	msg := models.Message{
		ID:        next.newID(now),
		Sender:    sender,
		Body:      body,
		CreatedAt: now,
		Read:      true,
	}
	next.messages[msg.ID] = msg
	next.messageOrder = append(next.messageOrder, msg.ID)
	return next
}

func (s State) SetDraft(draft string) State {
	s.Draft = draft
	return s
}

// Send appends the draft as a text message from the local user and clears
// the draft. A blank draft leaves the state untouched and reports false.
func (s State) Send(now time.Time) (State, bool) {
	if strings.TrimSpace(s.Draft) == "" {
		return s, false
	}
	next := s.appendMessage(models.Me, models.TextBody{Text: s.Draft}, now)
	next.Draft = ""
	return next, true
}

// SendSticker appends a sticker message and closes the sticker picker.
func (s State) SendSticker(name string, now time.Time) State {
	next := s.appendMessage(models.Me, models.StickerBody{Name: name}, now)
	next.Dialog = DialogNone
	return next
}

// Attach appends a message for a picked file, typed by its media type, and
// closes the attachment picker.
func (s State) Attach(a models.Attachment, now time.Time) State {
	next := s.appendMessage(models.Me, models.AttachmentBody(a), now)
	next.Dialog = DialogNone
	return next
}

// SelectConversation sets the selected id when it names a known chat or
// group. Unread counts are left as they are.
func (s State) SelectConversation(id string) State {
	if _, ok := s.Conversation(id); ok {
		s.Selected = id
	}
	return s
}

func (s State) SwitchTab(tab models.Tab) State {
	s.ActiveTab = tab
	return s
}

// CreateConversation appends a new chat or group, depending on the active
// tab, and closes the create dialog. A blank name is ignored.
func (s State) CreateConversation(name string, now time.Time) (State, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, false
	}

	next := s.clone()
	c := models.Conversation{
		ID:          next.newID(now),
		Name:        name,
		Avatar:      Initials(name),
		Status:      models.StatusOnline,
		LastMessage: "Chat created",
		LastTime:    now,
		Type:        models.TypeChat,
	}

	if next.ActiveTab == models.TabGroups {
		c.Type = models.TypeGroup
		c.LastMessage = "Group created"
		c.CreatedBy = models.Me
		c.Participants = []string{models.Me}
		next.groups[c.ID] = c
		next.groupOrder = append(next.groupOrder, c.ID)
	} else {
		next.chats[c.ID] = c
		next.chatOrder = append(next.chatOrder, c.ID)
	}

	next.Dialog = DialogNone
	return next, true
}

// OpenDialog shows d. The edit dialog needs a selected conversation.
func (s State) OpenDialog(d Dialog) State {
	if d == DialogEdit && s.Selected == "" {
		return s
	}
	s.Dialog = d
	return s
}

func (s State) CloseDialog() State {
	s.Dialog = DialogNone
	return s
}

// CommitEdit closes the edit dialog. The submitted values are not applied to
// the stored conversation.
func (s State) CommitEdit(Edit) State {
	return s.CloseDialog()
}

// Messages returns every message in insertion order.
func (s State) Messages() []models.Message {
	out := make([]models.Message, 0, len(s.messageOrder))
	for _, id := range s.messageOrder {
		out = append(out, s.messages[id])
	}
	return out
}

// Message looks a single message up by id.
func (s State) Message(id string) (models.Message, bool) {
	m, ok := s.messages[id]
	return m, ok
}

func (s State) Chats() []models.Conversation {
	return ordered(s.chats, s.chatOrder)
}

func (s State) Groups() []models.Conversation {
	return ordered(s.groups, s.groupOrder)
}

// Conversations returns the collection shown under tab.
func (s State) Conversations(tab models.Tab) []models.Conversation {
	if tab == models.TabGroups {
		return s.Groups()
	}
	return s.Chats()
}

// Conversation looks id up in chats first, then groups.
func (s State) Conversation(id string) (models.Conversation, bool) {
	c, ok := s.chats[id]
	if !ok {
		c, ok = s.groups[id]
	}
	c.Participants = slices.Clone(c.Participants)
	return c, ok
}

func (s State) SelectedConversation() (models.Conversation, bool) {
	if s.Selected == "" {
		return models.Conversation{}, false
	}
	return s.Conversation(s.Selected)
}

func ordered(m map[string]models.Conversation, order []string) []models.Conversation {
	out := make([]models.Conversation, 0, len(order))
	for _, id := range order {
		c := m[id]
		c.Participants = slices.Clone(c.Participants)
		out = append(out, c)
	}
	return out
}
