package pdf

import "strings"

// translit cirílico ruso y kazajo → latín (helvetica solo cubre cp1252).
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
	'ә': "a", 'ғ': "g", 'қ': "q", 'ң': "n", 'ө': "o", 'ұ': "u", 'ү': "u", 'һ': "h", 'і': "i",
}

// Transliterate reemplaza letras cirílicas; el resto del texto queda igual.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lower := r
		upper := false
		if r >= 'А' && r <= 'Я' || r == 'Ё' || isKazakhUpper(r) {
			lower = toLowerCyr(r)
			upper = true
		}
		t, ok := translit[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if upper && t != "" {
			t = strings.ToUpper(t[:1]) + t[1:]
		}
		b.WriteString(t)
	}
	return b.String()
}

var kazakhUpper = map[rune]rune{
	'Ә': 'ә', 'Ғ': 'ғ', 'Қ': 'қ', 'Ң': 'ң', 'Ө': 'ө', 'Ұ': 'ұ', 'Ү': 'ү', 'Һ': 'һ', 'І': 'і',
}

func isKazakhUpper(r rune) bool {
	_, ok := kazakhUpper[r]
	return ok
}

func toLowerCyr(r rune) rune {
	if l, ok := kazakhUpper[r]; ok {
		return l
	}
	if r == 'Ё' {
		return 'ё'
	}
	return r + ('а' - 'А')
}
