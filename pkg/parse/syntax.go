package parse

import (
	"unicode"

	g "src.wl.sh/pkg/parse/grammar"
)

// Rule names of the match tree.
const (
	ruleExpr    = "expr"
	ruleOperand = "operand"
	ruleGroup   = "group"
	ruleList    = "list"
	ruleCall    = "call"
	rulePart    = "part"

	ruleSymbol  = "symbol"
	ruleNumber  = "number"
	ruleString  = "string"
	ruleInfix   = "infix"
	rulePrefix  = "prefix"
	rulePostfix = "postfix"
	ruleBracket = "bracket"
	ruleComma   = "comma"
)

// Builds the grammar for expressions using the operators in t.
//
//	expr    = operand { tail }
//	operand = { prefix } primary { call | part }
//	tail    = infix operand | optional-right-infix !operand | postfix | operand
//	primary = number | string | symbol | "(" expr ")" | "{" args "}"
//	call    = "[" args "]"
//	part    = "[[" args "]]"
//	args    = [ expr { "," expr } ]
//
// The last alternative of tail is juxtaposition, and only exists if t has an
// implicit operator.
func buildGrammar(t *Table) (*g.Grammar, error) {
	all := t.allSymbols()
	infix := operatorToken(ruleInfix, "infix operator", t.Symbols(InfixOp), all)
	prefix := operatorToken(rulePrefix, "prefix operator", t.Symbols(PrefixOp), all)
	postfix := operatorToken(rulePostfix, "postfix operator", t.Symbols(PostfixOp), all)

	tails := []g.Expr{g.Seq(infix, g.Ref(ruleOperand))}
	var optionalRight []string
	for _, op := range t.ops {
		if op.Arity == InfixOp && op.OptionalRight {
			optionalRight = append(optionalRight, op.Symbol)
		}
	}
	if len(optionalRight) > 0 {
		sortLongestFirst(optionalRight)
		tails = append(tails, g.Seq(
			operatorToken(ruleInfix, "infix operator", optionalRight, all),
			g.Not(g.Ref(ruleOperand))))
	}
	if len(t.Symbols(PostfixOp)) > 0 {
		tails = append(tails, postfix)
	}
	if t.Implicit() != nil {
		tails = append(tails, g.Ref(ruleOperand))
	}

	return g.Build(ruleExpr, g.Rules{
		ruleExpr: g.Node(ruleExpr, g.Seq(g.Ref(ruleOperand), g.Star(g.Ref("tail")))),
		ruleOperand: g.Node(ruleOperand, g.Seq(
			g.Star(prefix), g.Ref("primary"), g.Star(g.Ref("suffix")))),
		"tail": g.Choice(tails...),
		"primary": g.Choice(
			numberToken, stringToken, symbolToken,
			g.Node(ruleGroup, g.Seq(bracket("("), g.Ref(ruleExpr), bracket(")"))),
			g.Node(ruleList, g.Seq(bracket("{"), g.Ref("args"), bracket("}")))),
		"suffix": g.Choice(
			g.Node(rulePart, g.Seq(bracket("[["), g.Ref("args"), bracket("]]"))),
			g.Node(ruleCall, g.Seq(bracket("["), g.Ref("args"), bracket("]")))),
		"args": g.Opt(g.Seq(g.Ref(ruleExpr),
			g.Star(g.Seq(g.Keyword(ruleComma, ","), g.Ref(ruleExpr))))),
	})
}

func bracket(s string) g.Expr { return g.Keyword(ruleBracket, s) }

// Matches the longest operator symbol at the current position, if it is one
// of symbols. An operator symbol is never split into shorter ones, so "!="
// is not a "!" followed by "=".
func operatorToken(rule, desc string, symbols, all []string) g.Expr {
	if len(symbols) == 0 {
		return g.Token(rule, desc, g.Class(desc, func(rune) bool { return false }))
	}
	alts := make([]g.Expr, len(symbols))
	for i, sym := range symbols {
		var longer []g.Expr
		for _, other := range all {
			if len(other) > len(sym) && other[:len(sym)] == sym {
				longer = append(longer, g.Lit(other))
			}
		}
		alts[i] = g.Seq(g.Not(g.Choice(longer...)), g.Lit(sym))
	}
	return g.Token(rule, desc, g.Choice(alts...))
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlnum(r rune) bool { return isDigit(r) || unicode.IsLetter(r) }

func isSymbolStart(r rune) bool { return unicode.IsLetter(r) || r == '$' }

func isSymbolRest(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$' || r == '`'
}

var (
	digits = g.Plus(g.Class("digit", isDigit))

	// 12, 1.5, .5, 1., 1.5*^-3, 16^^ff
	numberToken = g.Token(ruleNumber, "number", g.Choice(
		g.Seq(digits, g.Lit("^^"), g.Plus(g.Class("digit", isAlnum))),
		g.Seq(
			g.Choice(
				g.Seq(digits, g.Opt(g.Seq(g.Lit("."), g.Star(g.Class("digit", isDigit))))),
				g.Seq(g.Lit("."), digits)),
			g.Opt(g.Seq(g.Lit("*^"), g.Opt(g.Lit("-")), digits)))))

	symbolToken = g.Token(ruleSymbol, "symbol", g.Seq(
		g.Class("symbol", isSymbolStart), g.Star(g.Class("symbol", isSymbolRest))))

	stringToken = g.Token(ruleString, "string", g.Seq(
		g.Lit(`"`),
		g.Star(g.Choice(
			g.Seq(g.Lit(`\`), g.Choice(
				g.Class("escape sequence", func(r rune) bool {
					_, ok := simpleEscapes[r]
					return ok
				}),
				g.Seq(g.Lit(":"), hexDigit, hexDigit, hexDigit, hexDigit))),
			g.Class("character", func(r rune) bool { return r != '"' && r != '\\' }))),
		g.Lit(`"`)))

	hexDigit = g.Class("hex digit", func(r rune) bool {
		return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
	})
)

var simpleEscapes = map[rune]rune{
	'"': '"', '\\': '\\', 'n': '\n', 't': '\t', 'r': '\r', 'b': '\b', 'f': '\f',
}
