package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and never clash with user variables.
//  2. kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen between letters as subtraction.
//  3. ; line comments become // comments.
//
// String literals, backtick literals and comment bodies are copied
// untouched, and := is preserved.
func preprocessSource(source string) string {
	p := preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.i < len(p.src) {
		switch c := p.src[p.i]; {
		case c == '"':
			p.copyQuoted('"', true)
		case c == '`':
			p.copyQuoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek(1) == '=':
			p.copy(2)
		case c == ':' && isLetter(p.peek(1)):
			p.keyword()
		case c == '-' && p.i > 0 && isIdentChar(p.src[p.i-1]) && isLetter(p.peek(1)):
			p.out.WriteByte('_')
			p.i++
		default:
			p.copy(1)
		}
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	i   int
	out strings.Builder
}

// peek returns the byte at offset k from the cursor, or 0 past the end.
func (p *preprocessor) peek(k int) byte {
	if p.i+k < len(p.src) {
		return p.src[p.i+k]
	}
	return 0
}

func (p *preprocessor) copy(n int) {
	end := min(p.i+n, len(p.src))
	p.out.WriteString(p.src[p.i:end])
	p.i = end
}

// copyQuoted copies a literal delimited by q, honoring backslash escapes
// when escapes is set. An unterminated literal runs to the end.
func (p *preprocessor) copyQuoted(q byte, escapes bool) {
	start := p.i
	p.i++
	for p.i < len(p.src) && p.src[p.i] != q {
		if escapes && p.src[p.i] == '\\' {
			p.i++
		}
		p.i++
	}
	p.i = min(p.i+1, len(p.src))
	p.out.WriteString(p.src[start:p.i])
}

// comment rewrites a run of semicolons as // and copies the rest of the line.
func (p *preprocessor) comment() {
	for p.i < len(p.src) && p.src[p.i] == ';' {
		p.i++
	}
	p.out.WriteString("//")
	end := strings.IndexByte(p.src[p.i:], '\n')
	if end < 0 {
		end = len(p.src) - p.i
	}
	p.copy(end)
}

func (p *preprocessor) keyword() {
	j := p.i + 1
	for j < len(p.src) && isKWChar(p.src[j]) {
		j++
	}
	p.out.WriteByte('"')
	p.out.WriteString(kwPrefix)
	p.out.WriteString(p.src[p.i+1 : j])
	p.out.WriteByte('"')
	p.i = j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
