package grammar

import "strings"

const (
	commentStart = "(*"
	commentEnd   = "*)"
)

// SkipTrivia returns the position of the first non-trivia byte at or after
// pos. Trivia is whitespace and comments delimited by "(*" and "*)", which
// may nest. If a comment is not terminated, it returns len(src) and false.
func SkipTrivia(src string, pos int) (int, bool) {
	for pos < len(src) {
		switch {
		case isSpace(src[pos]):
			pos++
		case strings.HasPrefix(src[pos:], commentStart):
			end, ok := skipComment(src, pos)
			if !ok {
				return end, false
			}
			pos = end
		default:
			return pos, true
		}
	}
	return pos, true
}

// IsTrivia returns whether src consists of trivia only.
func IsTrivia(src string) bool {
	end, ok := SkipTrivia(src, 0)
	return ok && end == len(src)
}

func skipComment(src string, pos int) (int, bool) {
	depth := 0
	for pos < len(src) {
		switch {
		case strings.HasPrefix(src[pos:], commentStart):
			depth++
			pos += len(commentStart)
		case strings.HasPrefix(src[pos:], commentEnd):
			depth--
			pos += len(commentEnd)
			if depth == 0 {
				return pos, true
			}
		default:
			pos++
		}
	}
	return len(src), false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func (m *matcher) skipTrivia(pos int) (int, bool) {
	end, ok := SkipTrivia(m.src, pos)
	if !ok {
		m.fail(end, `"*)"`)
	}
	return end, ok
}
