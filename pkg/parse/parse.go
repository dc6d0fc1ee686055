// Package parse implements the parser for expressions of the language.
//
// Parsing happens in two steps. A grammar built from the operator table
// matches the source into a flat match tree, where each expression is a
// sequence of operands and operators. Operator precedence and associativity
// are then resolved by precedence climbing over that sequence, producing the
// AST.
package parse

import (
	"src.wl.sh/pkg/diag"
	"src.wl.sh/pkg/must"
	"src.wl.sh/pkg/parse/grammar"
)

// Parser parses sources with a fixed operator table. It is safe for
// concurrent use.
type Parser struct {
	table   *Table
	grammar *grammar.Grammar
}

// NewParser builds a Parser for the operator table. The error, if any, is a
// *ConfigurationError.
func NewParser(t *Table) (*Parser, error) {
	gr, err := buildGrammar(t)
	if err != nil {
		return nil, err
	}
	return &Parser{t, gr}, nil
}

var defaultParser = must.OK1(NewParser(DefaultTable()))

// DefaultParser returns the Parser for the built-in operator table.
func DefaultParser() *Parser { return defaultParser }

// LoadParser returns a parser for the operator table in the named YAML file,
// or the default parser if name is empty.
func LoadParser(name string) (*Parser, error) {
	if name == "" {
		return defaultParser, nil
	}
	t, err := LoadTableFile(name)
	if err != nil {
		return nil, err
	}
	return NewParser(t)
}

// Parse parses src with the default parser.
func Parse(src Source) (Node, error) {
	return DefaultParser().Parse(src)
}

// Table returns the operator table of the parser.
func (p *Parser) Table() *Table { return p.table }

// Parse parses one logical input into an AST. The error, if any, is either a
// *SyntaxError or an *IncompleteError. An input that only contains whitespace
// and comments is an *IncompleteError with the message "empty input".
func (p *Parser) Parse(src Source) (Node, error) {
	if grammar.IsTrivia(src.Code) {
		return nil, newEmptyInputError(src)
	}
	m, failure := p.grammar.Match(src.Code)
	if failure != nil {
		return nil, newFailureError(src, failure)
	}
	b := &builder{src, p.table}
	return b.expr(m)
}

// Builds the AST from a match tree.
type builder struct {
	src   Source
	table *Table
}

func (b *builder) text(m *grammar.Match) string { return m.Text(b.src.Code) }

func rangeOf(m *grammar.Match) diag.Ranging { return diag.Ranging{From: m.From, To: m.To} }

// One element of the sequence precedence climbing works on: either an
// operand or an operator.
type item struct {
	operand Node
	op      *Operator
	r       diag.Ranging
}

func (b *builder) expr(m *grammar.Match) (Node, error) {
	var items []item
	for _, ch := range m.Children {
		switch ch.Rule {
		case ruleOperand:
			operandItems, err := b.operand(ch)
			if err != nil {
				return nil, err
			}
			items = append(items, operandItems...)
		case ruleInfix:
			items = append(items, item{op: b.table.Lookup(b.text(ch), InfixOp), r: rangeOf(ch)})
		case rulePostfix:
			items = append(items, item{op: b.table.Lookup(b.text(ch), PostfixOp), r: rangeOf(ch)})
		}
	}
	items = b.insertImplicit(items)
	c := &climber{items: items}
	return c.expr(0), nil
}

// Inserts the implicit operator between juxtaposed operands, and Null after
// operators with a missing right operand.
func (b *builder) insertImplicit(items []item) []item {
	var out []item
	for i, it := range items {
		if i > 0 && startsOperand(it) && endsOperand(items[i-1]) {
			prev := items[i-1].r.To
			out = append(out, item{op: b.table.Implicit(), r: diag.Ranging{From: prev, To: it.r.From}})
		}
		out = append(out, it)
		if it.op != nil && it.op.Arity == InfixOp && (i == len(items)-1 || !startsOperand(items[i+1])) {
			null := &Leaf{diag.PointRanging(it.r.To), Symbol, "Null"}
			out = append(out, item{operand: null, r: null.Ranging})
		}
	}
	return out
}

func startsOperand(it item) bool {
	return it.operand != nil || it.op.Arity == PrefixOp
}

func endsOperand(it item) bool {
	return it.operand != nil || it.op.Arity == PostfixOp
}

// Flattens an operand match into its prefix operators and the operand
// itself.
func (b *builder) operand(m *grammar.Match) ([]item, error) {
	var items []item
	i := 0
	for ; m.Children[i].Rule == rulePrefix; i++ {
		ch := m.Children[i]
		items = append(items, item{op: b.table.Lookup(b.text(ch), PrefixOp), r: rangeOf(ch)})
	}
	n, err := b.primary(m.Children[i])
	if err != nil {
		return nil, err
	}
	for _, suffix := range m.Children[i+1:] {
		args, err := b.args(suffix)
		if err != nil {
			return nil, err
		}
		r := diag.Ranging{From: n.Range().From, To: suffix.To}
		if suffix.Rule == rulePart {
			n = &Part{r, n, args}
		} else {
			n = &Call{r, n, args}
		}
	}
	return append(items, item{operand: n, r: n.Range()}), nil
}

func (b *builder) primary(m *grammar.Match) (Node, error) {
	r := rangeOf(m)
	switch m.Rule {
	case ruleSymbol:
		return &Leaf{r, Symbol, b.text(m)}, nil
	case ruleString:
		return &Leaf{r, String, decodeString(b.text(m))}, nil
	case ruleNumber:
		kind, value, err := decodeNumber(b.text(m))
		if err != nil {
			return nil, newSyntaxError(b.src, r, err.Error())
		}
		return &Leaf{r, kind, value}, nil
	case ruleGroup:
		inner, err := b.expr(m.Children[1])
		if err != nil {
			return nil, err
		}
		return &Group{r, inner}, nil
	case ruleList:
		elems, err := b.args(m)
		if err != nil {
			return nil, err
		}
		return &List{r, elems}, nil
	}
	panic("unexpected rule " + m.Rule)
}

// Builds the expressions inside brackets.
func (b *builder) args(m *grammar.Match) ([]Node, error) {
	var args []Node
	for _, ch := range m.Children {
		if ch.Rule != ruleExpr {
			continue
		}
		arg, err := b.expr(ch)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// Resolves precedence and associativity. The sequence alternates between
// operands and operators, with prefix operators before operands and postfix
// operators after them.
type climber struct {
	items []item
	pos   int
}

func (c *climber) peekOp() *Operator {
	if c.pos < len(c.items) {
		return c.items[c.pos].op
	}
	return nil
}

// Parses an expression whose operators all have a precedence of at least
// minPrec.
func (c *climber) expr(minPrec int) Node {
	lhs := c.unary()
	for {
		op := c.peekOp()
		if op == nil || op.Precedence < minPrec {
			return lhs
		}
		c.pos++
		if op.Arity == PostfixOp {
			lhs = &Postfix{diag.Ranging{From: lhs.Range().From, To: c.items[c.pos-1].r.To}, op, lhs}
			continue
		}
		switch op.Assoc {
		case Flat:
			operands := []Node{lhs, c.expr(op.Precedence + 1)}
			for c.continuesFlat(op) {
				c.pos++
				operands = append(operands, c.expr(op.Precedence+1))
			}
			lhs = newInfix(op, operands)
		case Right:
			lhs = newInfix(op, []Node{lhs, c.expr(op.Precedence)})
		default:
			lhs = newInfix(op, []Node{lhs, c.expr(op.Precedence + 1)})
		}
	}
}

// Reports whether the next operator extends a flat run of op. Operators
// sharing a name but not a precedence start a new node.
func (c *climber) continuesFlat(op *Operator) bool {
	next := c.peekOp()
	return next != nil && next.Arity == InfixOp &&
		next.Name == op.Name && next.Precedence == op.Precedence
}

func (c *climber) unary() Node {
	it := c.items[c.pos]
	c.pos++
	if it.operand != nil {
		return it.operand
	}
	operand := c.expr(it.op.Precedence)
	return &Prefix{diag.Ranging{From: it.r.From, To: operand.Range().To}, it.op, operand}
}

func newInfix(op *Operator, operands []Node) *Infix {
	r := diag.MixedRanging(operands[0], operands[len(operands)-1])
	return &Infix{r, op, operands}
}
