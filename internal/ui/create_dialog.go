package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/sibchat/internal/models"
)

type createDialog struct {
	tab       models.Tab
	nameInput textinput.Model
}

func newCreateDialog(tab models.Tab, width int) createDialog {
	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	if tab == models.TabGroups {
		nameInput.Placeholder = "Group name"
	}
	nameInput.Focus()
	nameInput.CharLimit = 100
	nameInput.Width = dialogInputWidth(width)

	return createDialog{tab: tab, nameInput: nameInput}
}

func dialogInputWidth(width int) int {
	if width <= 0 {
		return 50
	}
	if w := width - 20; w < 50 {
		return w
	}
	return 50
}

func (d createDialog) name() string {
	return d.nameInput.Value()
}

func (d createDialog) Update(msg tea.Msg) (createDialog, tea.Cmd) {
	var cmd tea.Cmd
	d.nameInput, cmd = d.nameInput.Update(msg)
	return d, cmd
}

func (d createDialog) View() string {
	var b strings.Builder

	title := "New Chat"
	if d.tab == models.TabGroups {
		title = "New Group"
	}

	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(dialogStyle.Render(
		focusedStyle.Render("> Name:") + "\n" + d.nameInput.View(),
	))
	b.WriteString("\n\n" + helpStyle.Render("enter/ctrl+s: create • esc: cancel"))

	return b.String()
}
