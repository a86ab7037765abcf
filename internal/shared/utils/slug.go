package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// MaxSlugLength matches the recipes.slug column.
const MaxSlugLength = 200

// GenerateSlug turns a recipe name into a URL slug: "Борщ с говядиной" → "borshch-s-govyadinoy",
// "Crème brûlée" → "creme-brulee". Returns "" when nothing survives.
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(Transliterate(input))
	lower := strings.ToLower(ascii)
	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	normalized := multiHyphen.ReplaceAllString(cleaned, "-")
	trimmed := strings.Trim(normalized, "-")

	if len(trimmed) > MaxSlugLength {
		trimmed = strings.TrimRight(trimmed[:MaxSlugLength], "-")
	}
	return trimmed
}

// RemoveDiacritics strips combining marks: "Nguyễn" → "Nguyen", "brûlée" → "brulee".
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	// đ/Đ has no decomposition
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate maps Russian Cyrillic to Latin; other runes pass through.
func Transliterate(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		lower := unicode.ToLower(r)
		latin, ok := cyrillic[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r && latin != "" {
			latin = strings.ToUpper(latin[:1]) + latin[1:]
		}
		b.WriteString(latin)
	}
	return b.String()
}
