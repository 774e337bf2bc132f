package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/saravenpi/sibchat/internal/attachments"
	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/models"
)

var testNow = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func testState() chat.State {
	return chat.New(chat.Seed{
		Chats: []models.Conversation{
			{ID: "1", Name: "Михаил Сибиряк", Avatar: "МС", Status: models.StatusOnline, LastMessage: "Привет", LastTime: testNow.Add(-2 * time.Minute)},
			{ID: "2", Name: "Анна Таёжная", Avatar: "АТ", Status: models.StatusAway, UnreadCount: 2, LastTime: testNow.Add(-15 * time.Minute)},
		},
		Groups: []models.Conversation{
			{ID: "4", Name: "Байкальские рыбаки", Avatar: "БР", UnreadCount: 3, CreatedBy: "Михаил", Participants: []string{"Михаил", "Анна", "Пётр", models.Me}},
		},
		Messages: []models.Message{
			{ID: "m1", Sender: "Михаил", Body: models.TextBody{Text: "Привет! Как дела в тайге?"}, CreatedAt: testNow.Add(-5 * time.Minute), Read: true},
		},
	})
}

func newTestScreen() ScreenModel {
	return NewScreenModel(testState(), Options{
		User:   "Юрий",
		Locale: "en",
		Log:    zerolog.Nop(),
		Now:    func() time.Time { return testNow },
	})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m ScreenModel, keys ...string) ScreenModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		next, ok := updated.(ScreenModel)
		if !ok {
			t.Fatalf("expected ScreenModel after %q, got %T", k, updated)
		}
		m = next
	}
	return m
}

func lastMessage(t *testing.T, m ScreenModel) models.Message {
	t.Helper()
	msgs := m.State().Messages()
	if len(msgs) == 0 {
		t.Fatalf("expected messages")
	}
	return msgs[len(msgs)-1]
}

func TestComposerSendsOnEnter(t *testing.T) {
	m := press(t, newTestScreen(), "enter", "Hello", "enter")

	msgs := m.State().Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	last := lastMessage(t, m)
	if body, ok := last.Body.(models.TextBody); !ok || body.Text != "Hello" || !last.FromMe() {
		t.Fatalf("expected Hello from me, got %+v", last)
	}
	if m.composer.Value() != "" || m.State().Draft != "" {
		t.Fatalf("expected composer to be cleared, got %q / %q", m.composer.Value(), m.State().Draft)
	}
}

func TestComposerIgnoresBlankDraft(t *testing.T) {
	m := press(t, newTestScreen(), "enter", "   ", "enter")
	if len(m.State().Messages()) != 1 {
		t.Fatalf("expected no new message, got %d", len(m.State().Messages()))
	}
	if m.State().Draft != "   " {
		t.Fatalf("expected draft to be kept, got %q", m.State().Draft)
	}
}

func TestSelectionKeepsUnreadCounts(t *testing.T) {
	m := press(t, newTestScreen(), "enter", "esc", "down", "enter")
	if m.State().Selected != "2" {
		t.Fatalf("expected conversation 2 selected, got %q", m.State().Selected)
	}
	anna, _ := m.State().Conversation("2")
	if anna.UnreadCount != 2 {
		t.Fatalf("expected unread count 2, got %d", anna.UnreadCount)
	}
}

func TestCreateGroupFromGroupsTab(t *testing.T) {
	m := press(t, newTestScreen(), "tab", "n")
	if m.State().Dialog != chat.DialogCreate {
		t.Fatalf("expected create dialog")
	}
	m = press(t, m, "Foo", "enter")

	if m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected dialog to close")
	}
	groups := m.State().Groups()
	if len(groups) != 2 || len(m.State().Chats()) != 2 {
		t.Fatalf("expected one new group only, got %d groups %d chats", len(groups), len(m.State().Chats()))
	}
	if groups[1].Avatar != "FO" || groups[1].UnreadCount != 0 {
		t.Fatalf("unexpected group %+v", groups[1])
	}
	if len(m.list.Items()) != 2 {
		t.Fatalf("expected the list to show the new group, got %d items", len(m.list.Items()))
	}
}

func TestCreateWithEmptyNameStaysOpen(t *testing.T) {
	m := press(t, newTestScreen(), "n", "enter")
	if m.State().Dialog != chat.DialogCreate {
		t.Fatalf("expected dialog to stay open")
	}
	m = press(t, m, "esc")
	if m.State().Dialog != chat.DialogNone || len(m.State().Chats()) != 2 {
		t.Fatalf("expected dialog closed and chats unchanged")
	}
}

func TestStickerPickerSendsSticker(t *testing.T) {
	m := press(t, newTestScreen(), "enter", "ctrl+s")
	if m.State().Dialog != chat.DialogStickers {
		t.Fatalf("expected sticker picker")
	}
	m = press(t, m, "enter")

	if m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected picker to close")
	}
	body, ok := lastMessage(t, m).Body.(models.StickerBody)
	if !ok || body.Name != chat.Stickers()[0].Name {
		t.Fatalf("expected first catalog sticker, got %#v", lastMessage(t, m).Body)
	}
}

func TestEditDialogDoesNotWriteBack(t *testing.T) {
	m := press(t, newTestScreen(), "tab", "enter", "ctrl+e")
	if m.State().Dialog != chat.DialogEdit {
		t.Fatalf("expected edit dialog")
	}

	m = press(t, m, "tab", "tab", "ctrl+d")
	if len(m.edit.participants) != 3 {
		t.Fatalf("expected participant removed in the dialog, got %v", m.edit.participants)
	}
	m = press(t, m, "ctrl+s")

	if m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected dialog to close")
	}
	g, _ := m.State().Conversation("4")
	if len(g.Participants) != 4 {
		t.Fatalf("expected stored participants untouched, got %v", g.Participants)
	}
}

func TestEditDialogEnterSaves(t *testing.T) {
	m := press(t, newTestScreen(), "tab", "enter", "ctrl+e", "tab")
	if m.edit.focusIndex != editFocusDescription {
		t.Fatalf("expected description focus, got %d", m.edit.focusIndex)
	}
	m = press(t, m, "enter")
	if m.State().Dialog != chat.DialogEdit {
		t.Fatalf("expected enter in the description to keep the dialog open")
	}

	m = press(t, m, "tab", "tab", "enter")
	if m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected enter on the name field to save, got dialog %v", m.State().Dialog)
	}
	g, _ := m.State().Conversation("4")
	if g.Name != "Байкальские рыбаки" {
		t.Fatalf("expected stored name untouched, got %q", g.Name)
	}
}

func TestAttachmentResult(t *testing.T) {
	m := press(t, newTestScreen(), "enter")
	m.state = m.state.OpenDialog(chat.DialogAttach)

	updated, _ := m.Update(attachmentAcquiredMsg{ref: models.Attachment{ID: "x", Name: "bear.png", MediaType: "image/png", URL: "blob:sibchat/x"}})
	m = updated.(ScreenModel)
	if lastMessage(t, m).Body.Kind() != models.KindImage {
		t.Fatalf("expected image message, got %s", lastMessage(t, m).Body.Kind())
	}
	if m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected picker to close")
	}

	m.state = m.state.OpenDialog(chat.DialogAttach)
	updated, _ = m.Update(attachmentAcquiredMsg{err: errors.New("permission denied")})
	m = updated.(ScreenModel)
	if m.err == nil || m.State().Dialog != chat.DialogNone {
		t.Fatalf("expected error shown and picker closed")
	}
	if len(m.State().Messages()) != 2 {
		t.Fatalf("expected failed attachment not to add a message")
	}
}

func TestTextAttachmentShowsPreview(t *testing.T) {
	m := press(t, newTestScreen(), "enter")
	m.state = m.state.OpenDialog(chat.DialogAttach)

	updated, _ := m.Update(attachmentAcquiredMsg{
		ref:     models.Attachment{ID: "t1", Name: "route.txt", MediaType: "text/plain", Size: 40},
		preview: "Новосибирск - Байкал",
	})
	m = updated.(ScreenModel)
	if lastMessage(t, m).Body.Kind() != models.KindDocument {
		t.Fatalf("expected document message, got %s", lastMessage(t, m).Body.Kind())
	}
	if view := m.View(); !strings.Contains(view, "route.txt") || !strings.Contains(view, "Новосибирск - Байкал") {
		t.Fatalf("expected document with preview in the thread, got:\n%s", view)
	}
}

func TestAcquireReadsPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("медведи спят\nзимой\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := attachments.NewStore(zerolog.Nop())
	defer store.Close()

	res, ok := acquireCmd(store, path)().(attachmentAcquiredMsg)
	if !ok || res.err != nil {
		t.Fatalf("expected a successful result, got %#v", res)
	}
	if res.preview != "медведи спят" {
		t.Fatalf("expected first line preview, got %q", res.preview)
	}
	if store.Len() != 1 {
		t.Fatalf("expected the handle to be held, got %d", store.Len())
	}
}

func TestComposerHasNoLengthLimit(t *testing.T) {
	long := strings.Repeat("снег ", 400)
	m := press(t, newTestScreen(), "enter", long, "enter")

	body, ok := lastMessage(t, m).Body.(models.TextBody)
	if !ok || body.Text != long {
		t.Fatalf("expected the full %d-rune draft to be sent, got %d runes", len([]rune(long)), len([]rune(body.Text)))
	}
}

func TestAcquireWithoutStoreFails(t *testing.T) {
	msg := acquireCmd(nil, "/tmp/x.png")()
	res, ok := msg.(attachmentAcquiredMsg)
	if !ok || res.err == nil {
		t.Fatalf("expected an error result, got %#v", msg)
	}
}

func TestFreezeTickRefreshes(t *testing.T) {
	m := newTestScreen()
	_, cmd := m.Update(freezeTickMsg(testNow))
	if cmd == nil {
		t.Fatalf("expected the tick to be rescheduled")
	}
}

func TestViewShowsListAndThread(t *testing.T) {
	m := newTestScreen()
	view := m.View()
	for _, want := range []string{"SibCHAT", "Михаил Сибиряк", "Select a chat"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}

	m = press(t, m, "enter")
	view = m.View()
	if !strings.Contains(view, "Как дела в тайге") {
		t.Fatalf("expected thread to render after selection")
	}
}

func TestQuitFromList(t *testing.T) {
	_, cmd := newTestScreen().Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
