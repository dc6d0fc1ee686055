package highlight

import "strings"

const (
	openers = "([{"
	closers = ")]}"
)

// MatchBracket finds the bracket at dot, or just before dot if there is none
// at dot, and its matching bracket. It returns the byte offsets of the
// opening and closing brackets. Brackets inside string literals and comments
// are ignored.
func MatchBracket(code string, dot int) (open, close int, ok bool) {
	pairs := matchAll(code)
	for _, pos := range []int{dot, dot - 1} {
		if other, found := pairs[pos]; found {
			if pos < other {
				return pos, other, true
			}
			return other, pos, true
		}
	}
	return 0, 0, false
}

// Pairs up all brackets in code, mapping the position of each matched
// bracket to the position of its pair.
func matchAll(code string) map[int]int {
	pairs := map[int]int{}
	var stack []int
	for _, pos := range bracketPositions(code) {
		c := code[pos]
		if strings.IndexByte(openers, c) >= 0 {
			stack = append(stack, pos)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		top := stack[len(stack)-1]
		if strings.IndexByte(openers, code[top]) != strings.IndexByte(closers, c) {
			// A mismatched closer is left unmatched.
			continue
		}
		stack = stack[:len(stack)-1]
		pairs[top] = pos
		pairs[pos] = top
	}
	return pairs
}

// Returns the positions of brackets outside string literals and (* *)
// comments.
func bracketPositions(code string) []int {
	var positions []int
	commentDepth := 0
	for i := 0; i < len(code); i++ {
		switch {
		case strings.HasPrefix(code[i:], "(*"):
			commentDepth++
			i++
		case commentDepth > 0:
			if strings.HasPrefix(code[i:], "*)") {
				commentDepth--
				i++
			}
		case code[i] == '"':
			i = skipString(code, i+1)
		case strings.IndexByte(openers+closers, code[i]) >= 0:
			positions = append(positions, i)
		}
	}
	return positions
}

// Returns the position of the closing quote of a string whose content starts
// at i, or len(code) if the string is unterminated.
func skipString(code string, i int) int {
	for ; i < len(code); i++ {
		switch code[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(code)
}
