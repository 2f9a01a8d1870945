package catalog

import (
	"strconv"
	"strings"
	"unicode"
)

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'є': "ye", 'і': "i", 'ї': "yi", 'ґ': "g",
}

// Slugify lowercases s, transliterates Cyrillic to Latin and joins words with "-".
// Characters that are neither letters, digits, spaces nor hyphens are dropped.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		var chunk string
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			chunk = string(r)
		case unicode.IsSpace(r) || r == '-':
			pendingDash = b.Len() > 0
			continue
		default:
			t, ok := translit[r]
			if !ok || t == "" {
				continue
			}
			chunk = t
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteString(chunk)
	}
	return b.String()
}

// IDSlug prefixes the slugified title with the record id and caps the length.
func IDSlug(id int64, title string, maxLen int) string {
	return truncateSlug(Slugify(strconv.FormatInt(id, 10)+"-"+title), maxLen)
}

func truncateSlug(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return strings.TrimRight(s[:maxLen], "-")
}
