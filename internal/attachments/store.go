package attachments

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saravenpi/sibchat/internal/models"
)

// AllowedTypes lists the extensions offered by the attachment picker.
var AllowedTypes = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp",
	".mp4", ".mov", ".webm", ".avi",
	".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt",
	".xls", ".xlsx", ".ppt", ".pptx",
}

var ErrUnknownHandle = errors.New("unknown attachment handle")

type handle struct {
	file *os.File
	ref  models.Attachment
}

// Store owns the open files behind attachment references for one session.
// Every handle is released by Release or, at the latest, by Close.
type Store struct {
	mu      sync.Mutex
	handles map[string]*handle
	closed  bool
	log     zerolog.Logger
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{
		handles: make(map[string]*handle),
		log:     log,
	}
}

// Acquire opens path, detects its media type and registers a session-local
// reference to it.
func (s *Store) Acquire(path string) (models.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open attachment: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return models.Attachment{}, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return models.Attachment{}, fmt.Errorf("attachment %s is a directory", path)
	}

	mediaType, err := detect(f)
	if err != nil {
		f.Close()
		return models.Attachment{}, err
	}

	id := uuid.NewString()
	ref := models.Attachment{
		ID:        id,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		URL:       "blob:sibchat/" + id,
		MediaType: mediaType,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		f.Close()
		return models.Attachment{}, errors.New("attachment store is closed")
	}
	s.handles[id] = &handle{file: f, ref: ref}

	s.log.Debug().Str("id", id).Str("name", ref.Name).Str("media_type", mediaType).Int64("size", ref.Size).Msg("attachment acquired")
	return ref, nil
}

// detect sniffs the content and falls back to the extension for formats
// that are containers of other formats (docx is a zip, for instance).
func detect(f *os.File) (string, error) {
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect media type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind attachment: %w", err)
	}

	if mt.Is("application/octet-stream") || mt.Is("application/zip") || mt.Is("text/plain") {
		if byExt := mimetype.Lookup(extensionType(f.Name())); byExt != nil {
			return byExt.String(), nil
		}
	}
	return strings.SplitN(mt.String(), ";", 2)[0], nil
}

var extensionTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".rtf":  "text/rtf",
}

func extensionType(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// Reader returns a reader over the attachment's content.
func (s *Store) Reader(id string) (io.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return io.NewSectionReader(h.file, 0, h.ref.Size), nil
}

// Preview returns up to limit runes of the first line of a plain text
// attachment, or "" for any other media type.
func (s *Store) Preview(id string, limit int) (string, error) {
	s.mu.Lock()
	h, ok := s.handles[id]
	s.mu.Unlock()
	if !ok {
		return "", ErrUnknownHandle
	}
	if h.ref.MediaType != "text/plain" {
		return "", nil
	}

	r, err := s.Reader(id)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 4*limit)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read attachment %s: %w", id, err)
	}

	line, _, _ := strings.Cut(strings.ToValidUTF8(string(buf[:n]), ""), "\n")
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes), nil
}

// Release closes one handle.
func (s *Store) Release(id string) error {
	s.mu.Lock()
	h, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownHandle
	}
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("failed to release attachment %s: %w", id, err)
	}
	s.log.Debug().Str("id", id).Msg("attachment released")
	return nil
}

// Len reports how many handles are still held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Close releases every handle still held. The store rejects new
// acquisitions afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]*handle)
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for id, h := range handles {
		if err := h.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release attachment %s: %w", id, err))
		}
	}
	s.log.Debug().Int("count", len(handles)).Msg("attachments released")
	return errors.Join(errs...)
}
