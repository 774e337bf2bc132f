package chat

type Sticker struct {
	Name  string
	Emoji string
	Label string
}

// DefaultSticker is shown for sticker names missing from the catalog.
const DefaultSticker = "😊"

var stickerCatalog = []Sticker{
	{Name: "bear", Emoji: "🐻", Label: "Медведь"},
	{Name: "snowflake", Emoji: "❄️", Label: "Снежинка"},
	{Name: "fish", Emoji: "🐟", Label: "Рыбалка"},
	{Name: "pine", Emoji: "🌲", Label: "Тайга"},
	{Name: "fire", Emoji: "🔥", Label: "Костёр"},
	{Name: "tea", Emoji: "☕", Label: "Чай"},
	{Name: "wolf", Emoji: "🐺", Label: "Волк"},
	{Name: "moose", Emoji: "🦌", Label: "Лось"},
}

// Stickers returns the catalog in display order.
func Stickers() []Sticker {
	out := make([]Sticker, len(stickerCatalog))
	copy(out, stickerCatalog)
	return out
}

// LookupSticker finds a catalog entry by name.
func LookupSticker(name string) (Sticker, bool) {
	for _, s := range stickerCatalog {
		if s.Name == name {
			return s, true
		}
	}
	return Sticker{}, false
}

func StickerEmoji(name string) string {
	if s, ok := LookupSticker(name); ok {
		return s.Emoji
	}
	return DefaultSticker
}
