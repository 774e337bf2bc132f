package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/sibchat/internal/attachments"
	"github.com/saravenpi/sibchat/internal/models"
)

type attachmentAcquiredMsg struct {
	ref     models.Attachment
	preview string
	err     error
}

const previewRunes = 60

// attachPicker wraps the file picker and shows a spinner while the chosen
// file is being opened.
type attachPicker struct {
	picker  filepicker.Model
	spinner spinner.Model
	loading bool
	err     error
}

func newAttachPicker(dir string) attachPicker {
	fp := filepicker.New()
	fp.AllowedTypes = attachments.AllowedTypes
	if dir != "" {
		fp.CurrentDirectory = dir
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return attachPicker{picker: fp, spinner: s}
}

func (p attachPicker) Init() tea.Cmd {
	return p.picker.Init()
}

func acquireCmd(store *attachments.Store, path string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return attachmentAcquiredMsg{err: errors.New("attachments are not available")}
		}
		ref, err := store.Acquire(path)
		if err != nil {
			return attachmentAcquiredMsg{err: err}
		}
		preview, err := store.Preview(ref.ID, previewRunes)
		if err != nil {
			return attachmentAcquiredMsg{ref: ref, err: err}
		}
		return attachmentAcquiredMsg{ref: ref, preview: preview}
	}
}

// Update returns the path of a picked file, or "" while browsing.
func (p attachPicker) Update(msg tea.Msg) (attachPicker, string, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !p.loading {
			return p, "", nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, "", cmd
	}

	if p.loading {
		return p, "", nil
	}

	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)

	if didSelect, path := p.picker.DidSelectFile(msg); didSelect {
		p.loading = true
		p.err = nil
		return p, path, tea.Batch(cmd, p.spinner.Tick)
	}
	if didSelect, path := p.picker.DidSelectDisabledFile(msg); didSelect {
		p.err = fmt.Errorf("%s is not a supported attachment type", path)
	}
	return p, "", cmd
}

func (p attachPicker) View() string {
	s := titleStyle.Render("Attach File") + "\n\n"

	if p.loading {
		return s + fmt.Sprintf("  %s Opening file...\n", p.spinner.View())
	}

	if p.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", p.err)) + "\n\n"
	}
	s += p.picker.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter/→: open or pick • ←: up • esc: cancel")
	return s
}
