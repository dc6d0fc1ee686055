package parse

import (
	"src.wl.sh/pkg/diag"
	"src.wl.sh/pkg/parse/grammar"
)

// TokenKind is the kind of a Token.
type TokenKind int

// Possible values of TokenKind.
const (
	SymbolToken TokenKind = iota
	NumberToken
	StringToken
	OperatorToken
	BracketToken
	EndOfInputToken
)

var tokenKindNames = []string{"Symbol", "Number", "String", "Operator", "Bracket", "EndOfInput"}

func (k TokenKind) String() string { return tokenKindNames[k] }

// Token is a lexical unit of a source.
type Token struct {
	diag.Ranging
	Kind TokenKind
	Text string
}

var tokenKindOfRule = map[string]TokenKind{
	ruleSymbol:  SymbolToken,
	ruleNumber:  NumberToken,
	ruleString:  StringToken,
	ruleInfix:   OperatorToken,
	rulePrefix:  OperatorToken,
	rulePostfix: OperatorToken,
	ruleComma:   OperatorToken,
	ruleBracket: BracketToken,
}

// Tokens returns the tokens of src with the default parser.
func Tokens(src Source) ([]Token, error) {
	return DefaultParser().Tokens(src)
}

// Tokens returns the tokens of src, ending with an EndOfInput token. It
// returns the same errors as Parse, except that an empty input yields just
// the EndOfInput token.
func (p *Parser) Tokens(src Source) ([]Token, error) {
	end := Token{diag.PointRanging(len(src.Code)), EndOfInputToken, ""}
	if grammar.IsTrivia(src.Code) {
		return []Token{end}, nil
	}
	m, failure := p.grammar.Match(src.Code)
	if failure != nil {
		return nil, newFailureError(src, failure)
	}
	var tokens []Token
	m.Walk(func(m *grammar.Match) {
		if kind, ok := tokenKindOfRule[m.Rule]; ok {
			tokens = append(tokens, Token{rangeOf(m), kind, m.Text(src.Code)})
		}
	})
	return append(tokens, end), nil
}
