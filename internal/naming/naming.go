// Package naming produces the decorated channel names used across the server
// and folds them back into plain text for matching.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultEmoji = "🎇"
	Separator    = "・"

	openDecor  = "「"
	closeDecor = "」"

	// Mathematical sans-serif bold italic small a.
	styledSmallA = 0x1D656

	maxChannelName  = 100
	maxCategoryName = 90
)

var unsafeCategoryChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Stylize maps ASCII letters to their bold italic counterparts. Other runes
// pass through untouched.
func Stylize(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 4)
	for _, r := range text {
		if unicode.IsLetter(r) {
			lower := unicode.ToLower(r)
			if lower >= 'a' && lower <= 'z' {
				b.WriteRune(rune(styledSmallA + (lower - 'a')))
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func IsDecorated(name string) bool {
	return strings.HasPrefix(name, openDecor) && strings.Contains(name, closeDecor)
}

// Decorate renders "「emoji」stylized". A leading emoji (or the part before
// the ・ separator) becomes the badge; otherwise fallback is used.
func Decorate(name, fallback string) string {
	if IsDecorated(name) {
		return name
	}
	emoji, rest := splitEmoji(name)
	if emoji == "" {
		emoji = fallback
		rest = name
	}
	return openDecor + emoji + closeDecor + Stylize(rest)
}

// StripDecor drops the 「emoji」 badge if present.
func StripDecor(name string) string {
	if IsDecorated(name) {
		_, after, _ := strings.Cut(name, closeDecor)
		return after
	}
	return name
}

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize folds a decorated or stylized name into lowercase ASCII-ish text
// suitable for substring matching.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, openDecor, "")
	name = strings.ReplaceAll(name, closeDecor, "")
	name = strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(foldTransformer, name)
	if err == nil {
		name = folded
	}
	name = strings.ToLower(name)
	name = strings.NewReplacer("—", "-", "–", "-").Replace(name)
	return name
}

func IsTicketChannel(name string) bool {
	return strings.Contains(Normalize(name), "ticket")
}

// Key extracts the template key from a catalog channel name such as
// "🎟️・ticket-ayuda-general".
func Key(raw string) string {
	var key string
	if _, after, ok := strings.Cut(raw, Separator); ok {
		key = after
	} else {
		key = strings.TrimLeftFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
	}
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(key)
}

// SafeCategoryName is the retry name used when a category name is rejected.
func SafeCategoryName(name string) string {
	return truncate(strings.TrimSpace(unsafeCategoryChars.ReplaceAllString(name, "")), maxCategoryName)
}

// SafeChannelName is the retry name used when a channel name is rejected.
func SafeChannelName(name string) string {
	return truncate(strings.ReplaceAll(name, " ", "-"), maxChannelName)
}

func splitEmoji(name string) (string, string) {
	if before, after, ok := strings.Cut(name, Separator); ok {
		before = strings.TrimSpace(before)
		if before != "" && utf8.RuneCountInString(before) <= 3 {
			return before, strings.TrimSpace(after)
		}
	}
	r, size := utf8.DecodeRuneInString(name)
	if !isEmojiRune(r) {
		return "", name
	}
	end := size
	if next, n := utf8.DecodeRuneInString(name[end:]); next == 0xFE0F {
		end += n
	}
	rest := strings.TrimSpace(strings.TrimLeft(name[end:], Separator+"- "))
	if rest == "" {
		return "", name
	}
	return name[:end], rest
}

func isEmojiRune(r rune) bool {
	return (r >= 0x1F000 && r <= 0x1FFFF) || (r >= 0x2600 && r <= 0x27BF)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
