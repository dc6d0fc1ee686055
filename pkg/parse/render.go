package parse

import (
	"strings"
)

// Render prints n as source code. Parsing the result gives an AST with the
// same structure as n.
func Render(n Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		if n.Kind == String {
			sb.WriteString(Quote(n.Value))
		} else if !IsMissingOperand(n) {
			sb.WriteString(n.Value)
		}
	case *Call:
		render(sb, n.Head)
		sb.WriteString("[")
		renderSeq(sb, n.Args)
		sb.WriteString("]")
	case *Part:
		render(sb, n.Expr)
		sb.WriteString("[[")
		renderSeq(sb, n.Indices)
		sb.WriteString("]]")
	case *List:
		sb.WriteString("{")
		renderSeq(sb, n.Elems)
		sb.WriteString("}")
	case *Group:
		sb.WriteString("(")
		render(sb, n.Inner)
		sb.WriteString(")")
	case *Prefix:
		sb.WriteString(n.Op.Symbol)
		if _, ok := n.Operand.(*Prefix); ok {
			sb.WriteString(" ")
		}
		render(sb, n.Operand)
	case *Postfix:
		render(sb, n.Operand)
		if _, ok := n.Operand.(*Postfix); ok {
			sb.WriteString(" ")
		}
		sb.WriteString(n.Op.Symbol)
	case *Infix:
		for i, operand := range n.Operands {
			if i > 0 {
				if n.Op.OptionalRight {
					sb.WriteString(n.Op.Symbol + " ")
				} else {
					sb.WriteString(" " + n.Op.Symbol + " ")
				}
			}
			render(sb, operand)
		}
	}
}

func renderSeq(sb *strings.Builder, ns []Node) {
	for i, n := range ns {
		if i > 0 {
			sb.WriteString(", ")
		}
		render(sb, n)
	}
}

// FullForm prints n in the form head[args], where operators are replaced by
// their names, like Plus[1, Times[2, 3]] for 1+2*3. Groups are transparent.
func FullForm(n Node) string {
	var sb strings.Builder
	fullForm(&sb, n)
	return sb.String()
}

func fullForm(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		if n.Kind == String {
			sb.WriteString(Quote(n.Value))
		} else {
			sb.WriteString(n.Value)
		}
	case *Call:
		fullForm(sb, n.Head)
		fullFormArgs(sb, n.Args...)
	case *Part:
		sb.WriteString("Part")
		fullFormArgs(sb, append([]Node{n.Expr}, n.Indices...)...)
	case *List:
		sb.WriteString("List")
		fullFormArgs(sb, n.Elems...)
	case *Group:
		fullForm(sb, n.Inner)
	case *Prefix:
		sb.WriteString(n.Op.Name)
		fullFormArgs(sb, n.Operand)
	case *Postfix:
		sb.WriteString(n.Op.Name)
		fullFormArgs(sb, n.Operand)
	case *Infix:
		sb.WriteString(n.Op.Name)
		fullFormArgs(sb, n.Operands...)
	}
}

func fullFormArgs(sb *strings.Builder, args ...Node) {
	sb.WriteString("[")
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fullForm(sb, arg)
	}
	sb.WriteString("]")
}
