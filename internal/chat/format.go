package chat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/saravenpi/sibchat/internal/models"
)

var sizeUnits = map[string][]string{
	"en": {"B", "KB", "MB", "GB"},
	"ru": {"Б", "КБ", "МБ", "ГБ"},
}

// FormatFileSize renders a byte count with binary prefixes, rounded to two
// decimals with trailing zeros dropped. Unknown locales fall back to en.
func FormatFileSize(size int64, locale string) string {
	units, ok := sizeUnits[locale]
	if !ok {
		units = sizeUnits["en"]
	}
	if size <= 0 {
		return "0 " + units[0]
	}

	i, div := 0, int64(1)
	for i < len(units)-1 && size/div >= 1024 {
		div *= 1024
		i++
	}

	value := float64(size) / float64(div)
	value = math.Round(value*100) / 100
	return fmt.Sprintf("%s %s", strconv.FormatFloat(value, 'f', -1, 64), units[i])
}

// Initials returns the first two characters of name, upper-cased.
func Initials(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// FreezeThreshold is how long an incoming message may stay unread before it
// is shown as freezing.
const FreezeThreshold = 60 * time.Second

// Freezing reports whether msg has been unread for at least threshold.
func Freezing(msg models.Message, now time.Time, threshold time.Duration) bool {
	if msg.Read {
		return false
	}
	return now.Sub(msg.CreatedAt) >= threshold
}
