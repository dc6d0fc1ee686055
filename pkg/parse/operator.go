package parse

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"src.wl.sh/pkg/must"
	"src.wl.sh/pkg/parse/grammar"
)

// ConfigurationError is returned when an operator table is invalid.
type ConfigurationError = grammar.ConfigurationError

// Arity is the position class of an operator.
type Arity int

// Possible values of Arity.
const (
	InfixOp Arity = iota
	PrefixOp
	PostfixOp
)

var arityNames = []string{"infix", "prefix", "postfix"}

func (a Arity) String() string { return arityNames[a] }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Arity) UnmarshalText(text []byte) error {
	for i, name := range arityNames {
		if string(text) == name {
			*a = Arity(i)
			return nil
		}
	}
	return fmt.Errorf("invalid arity %q, should be infix, prefix or postfix", text)
}

// Assoc is the associativity of an infix operator.
type Assoc int

// Possible values of Assoc.
const (
	Left Assoc = iota
	Right
	// A run of a Flat operator becomes one node with all the operands.
	Flat
)

var assocNames = []string{"left", "right", "flat"}

func (a Assoc) String() string { return assocNames[a] }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Assoc) UnmarshalText(text []byte) error {
	for i, name := range assocNames {
		if string(text) == name {
			*a = Assoc(i)
			return nil
		}
	}
	return fmt.Errorf("invalid associativity %q, should be left, right or flat", text)
}

// Operator describes one operator of the language.
type Operator struct {
	Symbol string `yaml:"symbol"`
	// Name is the head used in full form, like Plus.
	Name       string `yaml:"name"`
	Precedence int    `yaml:"precedence"`
	Assoc      Assoc  `yaml:"assoc"`
	Arity      Arity  `yaml:"arity"`
	// Implicit marks the infix operator applied to juxtaposed operands, like
	// Times in "2 x".
	Implicit bool `yaml:"implicit"`
	// OptionalRight marks infix operators whose right operand may be
	// missing, like ";". A missing operand is the symbol Null.
	OptionalRight bool `yaml:"optional_right"`
}

// Table is a validated set of operators. It is never modified after
// creation.
type Table struct {
	ops      []*Operator
	byArity  [3]map[string]*Operator
	implicit *Operator
}

//go:embed operators.yaml
var defaultOperators []byte

var defaultTable = must.OK1(ParseTable(defaultOperators))

// DefaultTable returns the built-in operator table.
func DefaultTable() *Table { return defaultTable }

type tableFile struct {
	Operators []Operator `yaml:"operators"`
}

// ParseTable parses an operator table in YAML. Unknown keys are errors.
func ParseTable(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f tableFile
	if err := dec.Decode(&f); err != nil {
		return nil, &ConfigurationError{Message: "operator table: " + err.Error()}
	}
	return NewTable(f.Operators)
}

// LoadTableFile reads an operator table from a YAML file.
func LoadTableFile(name string) (*Table, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, &ConfigurationError{Message: err.Error()}
	}
	return ParseTable(data)
}

// NewTable validates the operators and builds a Table from them.
func NewTable(ops []Operator) (*Table, error) {
	t := &Table{}
	for i := range t.byArity {
		t.byArity[i] = map[string]*Operator{}
	}
	if len(ops) == 0 {
		return nil, tableError("no operators")
	}
	// Associativities of infix operators by precedence.
	assocs := map[int]map[Assoc]string{}
	for i := range ops {
		op := ops[i]
		if err := checkSymbol(op.Symbol); err != nil {
			return nil, err
		}
		if op.Name == "" {
			return nil, tableError("operator %q has no name", op.Symbol)
		}
		if op.Arity < InfixOp || op.Arity > PostfixOp {
			return nil, tableError("operator %q has invalid arity", op.Symbol)
		}
		if _, dup := t.byArity[op.Arity][op.Symbol]; dup {
			return nil, tableError("duplicate %s operator %q", op.Arity, op.Symbol)
		}
		switch op.Arity {
		case InfixOp:
			if _, ok := t.byArity[PostfixOp][op.Symbol]; ok {
				return nil, tableError("%q is both an infix and a postfix operator", op.Symbol)
			}
			if assocs[op.Precedence] == nil {
				assocs[op.Precedence] = map[Assoc]string{}
			}
			if _, ok := assocs[op.Precedence][op.Assoc]; !ok {
				assocs[op.Precedence][op.Assoc] = op.Symbol
			}
		case PostfixOp:
			if _, ok := t.byArity[InfixOp][op.Symbol]; ok {
				return nil, tableError("%q is both an infix and a postfix operator", op.Symbol)
			}
		}
		if op.Implicit {
			if op.Arity != InfixOp {
				return nil, tableError("implicit operator %q is not infix", op.Symbol)
			}
			if t.implicit != nil {
				return nil, tableError("more than one implicit operator: %q and %q", t.implicit.Symbol, op.Symbol)
			}
		}
		if op.OptionalRight && op.Arity != InfixOp {
			return nil, tableError("operator %q with optional right operand is not infix", op.Symbol)
		}
		p := &op
		t.ops = append(t.ops, p)
		t.byArity[op.Arity][op.Symbol] = p
		if op.Implicit {
			t.implicit = p
		}
	}
	for prec, m := range assocs {
		if right, ok := m[Right]; ok && len(m) > 1 {
			for _, other := range []Assoc{Left, Flat} {
				if sym, ok := m[other]; ok {
					return nil, tableError(
						"right-associative %q and %s-associative %q share precedence %d",
						right, other, sym, prec)
				}
			}
		}
	}
	return t, nil
}

func tableError(format string, args ...any) error {
	return &ConfigurationError{Message: "operator table: " + fmt.Sprintf(format, args...)}
}

// Runes that start or make up other tokens.
const reservedRunes = "()[]{},\"$`"

func checkSymbol(s string) error {
	if s == "" {
		return tableError("empty operator symbol")
	}
	if strings.HasPrefix(s, "(*") {
		return tableError("operator %q starts a comment", s)
	}
	for _, r := range s {
		if strings.ContainsRune(reservedRunes, r) ||
			!(unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return tableError("operator %q contains invalid character %q", s, r)
		}
	}
	return nil
}

// Lookup finds the operator with the given symbol and arity. It returns nil
// if there is none.
func (t *Table) Lookup(symbol string, arity Arity) *Operator {
	return t.byArity[arity][symbol]
}

// Implicit returns the operator applied to juxtaposed operands, or nil.
func (t *Table) Implicit() *Operator { return t.implicit }

// Operators returns copies of all operators, in the order they were defined.
func (t *Table) Operators() []Operator {
	ops := make([]Operator, len(t.ops))
	for i, op := range t.ops {
		ops[i] = *op
	}
	return ops
}

// Symbols returns the symbols of operators with the given arity, longest
// first.
func (t *Table) Symbols(arity Arity) []string {
	var symbols []string
	for sym := range t.byArity[arity] {
		symbols = append(symbols, sym)
	}
	sortLongestFirst(symbols)
	return symbols
}

func (t *Table) allSymbols() []string {
	seen := map[string]bool{}
	var symbols []string
	for _, op := range t.ops {
		if !seen[op.Symbol] {
			seen[op.Symbol] = true
			symbols = append(symbols, op.Symbol)
		}
	}
	sortLongestFirst(symbols)
	return symbols
}

func sortLongestFirst(symbols []string) {
	sort.Slice(symbols, func(i, j int) bool {
		if len(symbols[i]) != len(symbols[j]) {
			return len(symbols[i]) > len(symbols[j])
		}
		return symbols[i] < symbols[j]
	})
}
