package parse

import "src.wl.sh/pkg/diag"

// Node is a node in the AST. The tree is owned by whoever called Parse; the
// parser keeps no reference to it.
type Node interface {
	diag.Ranger
	node()
}

// LeafKind is the kind of a Leaf.
type LeafKind int

// Possible values of LeafKind.
const (
	Symbol LeafKind = iota
	Integer
	Real
	String
)

var leafKindNames = []string{"Symbol", "Integer", "Real", "String"}

func (k LeafKind) String() string { return leafKindNames[k] }

// Leaf is an atom: a symbol, a number or a string.
type Leaf struct {
	diag.Ranging
	Kind LeafKind
	// Value is the name of a symbol, the decimal digits of an integer, the
	// text of a real, or the decoded content of a string.
	Value string
}

// Call is a function application head[args].
type Call struct {
	diag.Ranging
	Head Node
	Args []Node
}

// Part is a part extraction expr[[indices]].
type Part struct {
	diag.Ranging
	Expr    Node
	Indices []Node
}

// List is a list construction {elems}.
type List struct {
	diag.Ranging
	Elems []Node
}

// Infix is an application of an infix operator. Operands has two elements,
// except for runs of Flat operators, which have one element per operand.
type Infix struct {
	diag.Ranging
	Op       *Operator
	Operands []Node
}

// Prefix is an application of a prefix operator.
type Prefix struct {
	diag.Ranging
	Op      *Operator
	Operand Node
}

// Postfix is an application of a postfix operator.
type Postfix struct {
	diag.Ranging
	Op      *Operator
	Operand Node
}

// Group is an expression in parentheses.
type Group struct {
	diag.Ranging
	Inner Node
}

func (*Leaf) node()    {}
func (*Call) node()    {}
func (*Part) node()    {}
func (*List) node()    {}
func (*Infix) node()   {}
func (*Prefix) node()  {}
func (*Postfix) node() {}
func (*Group) node()   {}

// IsMissingOperand returns whether n is the symbol Null inserted for a missing
// operand, like the one after the ";" in "a;".
func IsMissingOperand(n Node) bool {
	leaf, ok := n.(*Leaf)
	return ok && leaf.Kind == Symbol && leaf.Value == "Null" && leaf.From == leaf.To
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Call:
		return append([]Node{n.Head}, n.Args...)
	case *Part:
		return append([]Node{n.Expr}, n.Indices...)
	case *List:
		return n.Elems
	case *Infix:
		return n.Operands
	case *Prefix:
		return []Node{n.Operand}
	case *Postfix:
		return []Node{n.Operand}
	case *Group:
		return []Node{n.Inner}
	}
	return nil
}

// Innermost returns the innermost node of the tree rooted at n whose range
// contains the byte offset pos, or nil if there is none.
func Innermost(n Node, pos int) Node {
	if !n.Range().Contains(pos) {
		return nil
	}
	for _, ch := range Children(n) {
		if found := Innermost(ch, pos); found != nil {
			return found
		}
	}
	return n
}
