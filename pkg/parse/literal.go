package parse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decodes a number token into the kind and value of a Leaf.
func decodeNumber(text string) (LeafKind, string, error) {
	if i := strings.Index(text, "^^"); i != -1 {
		base, err := strconv.Atoi(text[:i])
		if err != nil || base < 2 || base > 36 {
			return 0, "", fmt.Errorf("invalid base %s, should be between 2 and 36", text[:i])
		}
		var n big.Int
		if _, ok := n.SetString(text[i+2:], base); !ok {
			return 0, "", fmt.Errorf("invalid digits %q for base %d", text[i+2:], base)
		}
		return Integer, n.String(), nil
	}
	mantissa, exp := text, ""
	if i := strings.Index(text, "*^"); i != -1 {
		mantissa, exp = text[:i], text[i+2:]
	}
	if strings.Contains(mantissa, ".") || strings.HasPrefix(exp, "-") {
		return Real, text, nil
	}
	var n big.Int
	n.SetString(mantissa, 10)
	if exp != "" {
		e, err := strconv.Atoi(exp)
		if err != nil || e > 10000 {
			return 0, "", fmt.Errorf("exponent %s is too large", exp)
		}
		n.Mul(&n, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(e)), nil))
	}
	return Integer, n.String(), nil
}

// Decodes a string token, including the quotes. The grammar guarantees that
// the escape sequences are valid.
func decodeString(text string) string {
	text = text[1 : len(text)-1]
	var sb strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '\\' {
			r, size := utf8.DecodeRuneInString(text[i:])
			sb.WriteRune(r)
			i += size
			continue
		}
		if text[i+1] == ':' {
			code, _ := strconv.ParseUint(text[i+2:i+6], 16, 32)
			sb.WriteRune(rune(code))
			i += 6
			continue
		}
		sb.WriteRune(simpleEscapes[rune(text[i+1])])
		i += 2
	}
	return sb.String()
}

// Quote returns a string literal that decodes to s.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\:%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
