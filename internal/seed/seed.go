package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/models"
)

//go:embed seed.yml
var defaultSeed []byte

type conversation struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Type         string        `yaml:"type,omitempty"`
	Avatar       string        `yaml:"avatar,omitempty"`
	Status       string        `yaml:"status"`
	LastMessage  string        `yaml:"last_message"`
	Age          time.Duration `yaml:"age"`
	Unread       int           `yaml:"unread,omitempty"`
	CreatedBy    string        `yaml:"created_by,omitempty"`
	Description  string        `yaml:"description,omitempty"`
	Participants []string      `yaml:"participants,omitempty"`
}

type message struct {
	ID       string        `yaml:"id"`
	Sender   string        `yaml:"sender"`
	Kind     string        `yaml:"kind"`
	Text     string        `yaml:"text,omitempty"`
	Sticker  string        `yaml:"sticker,omitempty"`
	FileName string        `yaml:"file_name,omitempty"`
	FileSize int64         `yaml:"file_size,omitempty"`
	Age      time.Duration `yaml:"age"`
	Read     bool          `yaml:"read"`
}

type file struct {
	Chats    []conversation `yaml:"chats"`
	Groups   []conversation `yaml:"groups"`
	Messages []message      `yaml:"messages"`
}

// Default returns the built-in sample data with timestamps relative to now.
func Default(now time.Time) (chat.Seed, error) {
	return Parse(defaultSeed, now)
}

// Load reads seed data from path, or the built-in sample when path is empty.
func Load(path string, now time.Time) (chat.Seed, error) {
	if path == "" {
		return Default(now)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return chat.Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data, now)
}

func Parse(data []byte, now time.Time) (chat.Seed, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return chat.Seed{}, fmt.Errorf("failed to parse seed data: %w", err)
	}

	var s chat.Seed
	seen := make(map[string]bool)
	for _, c := range f.Chats {
		conv, err := c.toModel(models.TypeChat, now, seen)
		if err != nil {
			return chat.Seed{}, err
		}
		s.Chats = append(s.Chats, conv)
	}
	for _, g := range f.Groups {
		conv, err := g.toModel(models.TypeGroup, now, seen)
		if err != nil {
			return chat.Seed{}, err
		}
		s.Groups = append(s.Groups, conv)
	}

	seenMessages := make(map[string]bool)
	for _, m := range f.Messages {
		msg, err := m.toModel(now)
		if err != nil {
			return chat.Seed{}, err
		}
		if seenMessages[msg.ID] {
			return chat.Seed{}, fmt.Errorf("duplicate message id %q", msg.ID)
		}
		seenMessages[msg.ID] = true
		s.Messages = append(s.Messages, msg)
	}

	return s, nil
}

func (c conversation) toModel(t models.ConversationType, now time.Time, seen map[string]bool) (models.Conversation, error) {
	if c.ID == "" || c.Name == "" {
		return models.Conversation{}, fmt.Errorf("conversation needs an id and a name")
	}
	if seen[c.ID] {
		return models.Conversation{}, fmt.Errorf("duplicate conversation id %q", c.ID)
	}
	if c.Unread < 0 {
		return models.Conversation{}, fmt.Errorf("conversation %q: unread count cannot be negative", c.ID)
	}
	seen[c.ID] = true

	switch c.Type {
	case "":
	case "chat":
		t = models.TypeChat
	case "group":
		t = models.TypeGroup
	default:
		return models.Conversation{}, fmt.Errorf("conversation %q: unknown type %q", c.ID, c.Type)
	}

	avatar := c.Avatar
	if avatar == "" {
		avatar = chat.Initials(c.Name)
	}

	return models.Conversation{
		ID:           c.ID,
		Name:         c.Name,
		Avatar:       avatar,
		Status:       models.ParseStatus(c.Status),
		LastMessage:  c.LastMessage,
		LastTime:     now.Add(-c.Age),
		UnreadCount:  c.Unread,
		Type:         t,
		Participants: c.Participants,
		CreatedBy:    c.CreatedBy,
		Description:  c.Description,
	}, nil
}

func (m message) toModel(now time.Time) (models.Message, error) {
	if m.ID == "" {
		return models.Message{}, fmt.Errorf("message needs an id")
	}

	var body models.Body
	switch m.Kind {
	case "", "text":
		body = models.TextBody{Text: m.Text}
	case "sticker":
		body = models.StickerBody{Name: m.Sticker}
	case "image", "video", "document":
		a := models.Attachment{Name: m.FileName, Size: m.FileSize}
		switch m.Kind {
		case "image":
			body = models.ImageBody{Attachment: a}
		case "video":
			body = models.VideoBody{Attachment: a}
		default:
			body = models.DocumentBody{Attachment: a}
		}
	default:
		return models.Message{}, fmt.Errorf("message %q: unknown kind %q", m.ID, m.Kind)
	}

	return models.Message{
		ID:        m.ID,
		Sender:    m.Sender,
		Body:      body,
		CreatedAt: now.Add(-m.Age),
		Read:      m.Read,
	}, nil
}
