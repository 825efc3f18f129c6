package strfmt

import "strings"

// part is one piece of a compiled pattern: either literal text copied
// verbatim, or a token resolved per-tile at format time.
type part struct {
	lit     string
	tok     Token
	isToken bool
}

// parse tokenizes a pattern string into literal/token parts, matching the
// reference's FormatParts construction: "{z}/{x}/{y}" collapses to the
// single ZxyFslash token before the brace scan, since it's the common
// case and every CLI default uses it.
func parse(pattern string) ([]part, int) {
	pattern = strings.TrimSpace(pattern)
	pattern = strings.ReplaceAll(pattern, "{z}/{x}/{y}", "{zxy}")

	var parts []part
	var lit strings.Builder
	var tok strings.Builder
	inBrace := false

	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{lit: lit.String()})
			lit.Reset()
		}
	}

	for _, c := range pattern {
		switch {
		case c == '{':
			flushLit()
			inBrace = true
			tok.Reset()
		case c == '}':
			if inBrace {
				name := strings.ToLower(tok.String())
				if t, ok := tokenFromName(name); ok {
					parts = append(parts, part{tok: t, isToken: true})
				} else {
					parts = append(parts, part{lit: "{" + tok.String() + "}"})
				}
				tok.Reset()
			}
			inBrace = false
		case inBrace:
			tok.WriteRune(c)
		default:
			lit.WriteRune(c)
		}
	}
	flushLit()
	if inBrace {
		// unterminated "{...": treat what was collected as literal text,
		// brace included, rather than silently dropping it.
		parts = append(parts, part{lit: "{" + tok.String()})
	}

	n := 0
	for _, p := range parts {
		if p.isToken {
			n++
		}
	}
	return parts, n
}

// render reassembles a parts list back into its canonical pattern string
// (token parts render to their brace form, literals pass through).
func render(parts []part) string {
	var b strings.Builder
	for _, p := range parts {
		if p.isToken {
			b.WriteString(p.tok.braceForm())
		} else {
			b.WriteString(p.lit)
		}
	}
	return b.String()
}
