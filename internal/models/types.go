package models

import (
	"strings"
	"time"
)

// Me is the sender marker for messages written by the local user.
const Me = "me"

type Kind int

const (
	KindText Kind = iota
	KindImage
	KindVideo
	KindDocument
	KindSticker
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	case KindSticker:
		return "sticker"
	}
	return "unknown"
}

// KindForMediaType classifies an attachment by its media type prefix.
func KindForMediaType(mediaType string) Kind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// Attachment is a session-local handle to a file picked by the user.
type Attachment struct {
	ID        string
	Name      string
	Size      int64
	URL       string
	MediaType string
}

// Body is the kind-specific payload of a message.
type Body interface {
	Kind() Kind
}

type TextBody struct {
	Text string
}

type ImageBody struct {
	Attachment Attachment
}

type VideoBody struct {
	Attachment Attachment
}

type DocumentBody struct {
	Attachment Attachment
}

type StickerBody struct {
	Name string
}

func (TextBody) Kind() Kind     { return KindText }
func (ImageBody) Kind() Kind    { return KindImage }
func (VideoBody) Kind() Kind    { return KindVideo }
func (DocumentBody) Kind() Kind { return KindDocument }
func (StickerBody) Kind() Kind  { return KindSticker }

// AttachmentBody wraps an attachment in the body matching its media type.
func AttachmentBody(a Attachment) Body {
	switch KindForMediaType(a.MediaType) {
	case KindImage:
		return ImageBody{Attachment: a}
	case KindVideo:
		return VideoBody{Attachment: a}
	default:
		return DocumentBody{Attachment: a}
	}
}

type Message struct {
	ID        string
	Sender    string
	Body      Body
	CreatedAt time.Time
	Read      bool
}

func (m Message) FromMe() bool {
	return m.Sender == Me
}

// Attachment returns the attachment carried by image, video and document
// messages.
func (m Message) Attachment() (Attachment, bool) {
	switch b := m.Body.(type) {
	case ImageBody:
		return b.Attachment, true
	case VideoBody:
		return b.Attachment, true
	case DocumentBody:
		return b.Attachment, true
	}
	return Attachment{}, false
}

type Status int

const (
	StatusOnline Status = iota
	StatusOffline
	StatusAway
	StatusFrozen
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	case StatusAway:
		return "away"
	case StatusFrozen:
		return "frozen"
	}
	return "unknown"
}

// ParseStatus maps a status name to a Status, defaulting to offline.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return StatusOnline
	case "away":
		return StatusAway
	case "frozen":
		return StatusFrozen
	}
	return StatusOffline
}

type ConversationType int

const (
	TypeChat ConversationType = iota
	TypeGroup
)

type Conversation struct {
	ID           string
	Name         string
	Avatar       string
	Status       Status
	LastMessage  string
	LastTime     time.Time
	UnreadCount  int
	Type         ConversationType
	Participants []string
	CreatedBy    string
	Description  string
}

func (c Conversation) IsGroup() bool {
	return c.Type == TypeGroup
}

type Tab int

const (
	TabChats Tab = iota
	TabGroups
)

func (t Tab) String() string {
	if t == TabGroups {
		return "groups"
	}
	return "chats"
}

// Other returns the tab not currently active.
func (t Tab) Other() Tab {
	if t == TabGroups {
		return TabChats
	}
	return TabGroups
}
