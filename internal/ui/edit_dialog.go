package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/models"
)

const (
	editFocusName = iota
	editFocusDescription
	editFocusParticipants
)

// editDialog is a form over a copy of one conversation. Removing a
// participant only touches the copy.
type editDialog struct {
	conv              models.Conversation
	nameInput         textinput.Model
	descriptionInput  textarea.Model
	participants      []string
	participantCursor int
	focusIndex        int
}

func newEditDialog(conv models.Conversation, width int) editDialog {
	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	nameInput.Focus()
	nameInput.CharLimit = 100
	nameInput.Width = dialogInputWidth(width)
	nameInput.SetValue(conv.Name)

	descriptionInput := textarea.New()
	descriptionInput.Placeholder = "Description"
	descriptionInput.ShowLineNumbers = false
	descriptionInput.CharLimit = 500
	descriptionInput.SetHeight(3)
	descriptionInput.SetWidth(dialogInputWidth(width))
	descriptionInput.SetValue(conv.Description)
	descriptionInput.Blur()

	return editDialog{
		conv:             conv,
		nameInput:        nameInput,
		descriptionInput: descriptionInput,
		participants:     slices.Clone(conv.Participants),
	}
}

func (d editDialog) fieldCount() int {
	if d.conv.IsGroup() {
		return 3
	}
	return 1
}

func (d editDialog) edit() chat.Edit {
	return chat.Edit{
		ConversationID: d.conv.ID,
		Name:           strings.TrimSpace(d.nameInput.Value()),
		Description:    strings.TrimSpace(d.descriptionInput.Value()),
		Participants:   slices.Clone(d.participants),
	}
}

func (d *editDialog) updateFocus() {
	d.nameInput.Blur()
	d.descriptionInput.Blur()

	switch d.focusIndex {
	case editFocusName:
		d.nameInput.Focus()
	case editFocusDescription:
		d.descriptionInput.Focus()
	}
}

func (d editDialog) removeParticipant() editDialog {
	if d.focusIndex != editFocusParticipants || len(d.participants) == 0 {
		return d
	}
	d.participants = lo.Without(d.participants, d.participants[d.participantCursor])
	if d.participantCursor >= len(d.participants) && d.participantCursor > 0 {
		d.participantCursor--
	}
	return d
}

func (d editDialog) Update(msg tea.Msg) (editDialog, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "shift+tab":
			total := d.fieldCount()
			if msg.String() == "tab" {
				d.focusIndex = (d.focusIndex + 1) % total
			} else {
				d.focusIndex = (d.focusIndex - 1 + total) % total
			}
			d.updateFocus()
			return d, nil

		case "ctrl+d":
			return d.removeParticipant(), nil

		case "up", "k", "down", "j":
			if d.focusIndex == editFocusParticipants {
				if msg.String() == "up" || msg.String() == "k" {
					if d.participantCursor > 0 {
						d.participantCursor--
					}
				} else if d.participantCursor < len(d.participants)-1 {
					d.participantCursor++
				}
				return d, nil
			}
		}
	}

	var cmd tea.Cmd
	switch d.focusIndex {
	case editFocusName:
		d.nameInput, cmd = d.nameInput.Update(msg)
	case editFocusDescription:
		d.descriptionInput, cmd = d.descriptionInput.Update(msg)
	}
	return d, cmd
}

func (d editDialog) View() string {
	var b strings.Builder

	title := "Edit Chat"
	if d.conv.IsGroup() {
		title = "Edit Group"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	label := func(text string, focused bool) string {
		if focused {
			return focusedStyle.Render("> " + text)
		}
		return blurredStyle.Render("  " + text)
	}

	var form strings.Builder
	form.WriteString(label("Name:", d.focusIndex == editFocusName) + "\n")
	form.WriteString(d.nameInput.View())

	if d.conv.IsGroup() {
		form.WriteString("\n\n" + label("Description:", d.focusIndex == editFocusDescription) + "\n")
		form.WriteString(d.descriptionInput.View())

		form.WriteString("\n\n" + label(fmt.Sprintf("Participants (%d):", len(d.participants)), d.focusIndex == editFocusParticipants) + "\n")
		if len(d.participants) == 0 {
			form.WriteString(helpStyle.Render("  nobody left"))
		}
		for i, p := range d.participants {
			if i > 0 {
				form.WriteString("\n")
			}
			line := "  " + p
			if p == d.conv.CreatedBy {
				line += " (creator)"
			}
			if d.focusIndex == editFocusParticipants && i == d.participantCursor {
				form.WriteString(selectedStyle.Render("▌" + line[1:]))
			} else {
				form.WriteString(normalStyle.Render(line))
			}
		}
	}

	b.WriteString(dialogStyle.Render(form.String()))

	help := "enter/ctrl+s: save • esc: cancel"
	if d.conv.IsGroup() {
		help = "tab: switch field • ↑↓: choose participant • ctrl+d: remove participant • enter/ctrl+s: save • esc: cancel"
	}
	b.WriteString("\n\n" + helpStyle.Render(help))

	return b.String()
}
