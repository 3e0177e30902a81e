package service

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultBlocklist es la lista de palabras vetadas por defecto. Es política,
// no estructura: se puede reemplazar por configuración sin tocar el filtro.
var DefaultBlocklist = []string{
	"fuck",
	"shit",
	"ass",
	"bitch",
	"damn",
	"bastard",
	"crap",
	"dick",
	"piss",
	"cunt",
}

// ProfanityFilter reemplaza palabras vetadas por asteriscos del mismo largo,
// sin alterar el resto del texto. El matching es por palabra completa y
// case-insensitive, sobre un autómata Aho-Corasick construido una sola vez.
type ProfanityFilter struct {
	matcher  *goahocorasick.Machine
	maskChar rune
}

// NewProfanityFilter construye el autómata a partir de la lista de palabras.
// Las entradas vacías se descartan; el resto se normaliza a minúsculas.
func NewProfanityFilter(blocklist []string, maskChar rune) (*ProfanityFilter, error) {
	patterns := make([][]rune, 0, len(blocklist))
	for _, word := range blocklist {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		patterns = append(patterns, []rune(w))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &ProfanityFilter{matcher: m, maskChar: maskChar}, nil
}

// Filter devuelve el texto con cada palabra vetada reemplazada por una corrida
// de maskChar de exactamente su largo. Espacios y puntuación quedan intactos.
// Es idempotente: las corridas de asteriscos no contienen palabras vetadas.
func (f *ProfanityFilter) Filter(text string) string {
	original := []rune(text)
	if len(original) == 0 {
		return text
	}

	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	spans := f.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return text
	}

	masked := false
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(original) {
			continue
		}
		// El autómata encuentra substrings; solo cuentan las palabras
		// completas ("classic" no contiene "ass" a efectos del filtro).
		if start > 0 && isWordRune(lowered[start-1]) {
			continue
		}
		if end < len(lowered) && isWordRune(lowered[end]) {
			continue
		}
		for i := start; i < end; i++ {
			original[i] = f.maskChar
		}
		masked = true
	}

	if !masked {
		return text
	}
	return string(original)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
