// Package grammar implements a small PEG engine. A grammar is an immutable
// graph of combinators, built once with Build and matched against any number
// of sources, possibly concurrently.
//
// Matching produces a tree of Match nodes for the parts of the grammar
// wrapped in Node or Token. When matching fails, the Failure describes the
// furthest position reached, the terminals that were expected there and the
// stack of rules active at that point.
package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Rules maps rule names to their definitions.
type Rules map[string]Expr

// Grammar is a validated set of rules with a start rule.
type Grammar struct {
	start string
	rules Rules
}

// ConfigurationError is returned when a grammar or the data it is built from
// is invalid. It is fatal: no input can be parsed without a valid grammar.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// Build validates the rules and returns a Grammar that matches the start
// rule. Every Ref must name a rule in rules.
func Build(start string, rules Rules) (*Grammar, error) {
	if _, ok := rules[start]; !ok {
		return nil, &ConfigurationError{fmt.Sprintf("start rule %q is not defined", start)}
	}
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	var undefined []string
	for _, name := range names {
		walk(rules[name], func(e Expr) {
			if r, ok := e.(*ref); ok {
				if _, ok := rules[r.name]; !ok {
					undefined = append(undefined, fmt.Sprintf("%q (used in %q)", r.name, name))
				}
			}
		})
	}
	if len(undefined) > 0 {
		return nil, &ConfigurationError{"undefined rules: " + strings.Join(undefined, ", ")}
	}
	copied := make(Rules, len(rules))
	for name, e := range rules {
		copied[name] = e
	}
	return &Grammar{start, copied}, nil
}

// Match is a node in the tree produced by a successful match.
type Match struct {
	Rule     string
	From     int
	To       int
	Children []*Match
}

// Text returns the part of src covered by the match.
func (m *Match) Text(src string) string {
	return src[m.From:m.To]
}

// Walk calls f for m and all its descendants in depth-first order.
func (m *Match) Walk(f func(*Match)) {
	f(m)
	for _, ch := range m.Children {
		ch.Walk(f)
	}
}

// Failure describes why a source did not match a grammar.
type Failure struct {
	// Pos is the furthest byte offset any terminal was tried at.
	Pos int
	// RuleStack holds the names of the rules being matched at Pos, outermost
	// first.
	RuleStack []string
	// Expected holds the descriptions of the terminals tried at Pos, sorted.
	Expected []string
	// AtEnd is true when Pos is the end of the source, meaning that the
	// source may be a prefix of a matching one.
	AtEnd bool
}

// ExpectedString describes the expected terminals as an English phrase, like
// "number, symbol or \"(\"".
func (f *Failure) ExpectedString() string {
	switch len(f.Expected) {
	case 0:
		return ""
	case 1:
		return f.Expected[0]
	}
	n := len(f.Expected)
	return strings.Join(f.Expected[:n-1], ", ") + " or " + f.Expected[n-1]
}

// Match matches the whole of src against the grammar. Trivia at the end of
// src is skipped. Exactly one of the return values is non-nil.
func (g *Grammar) Match(src string) (*Match, *Failure) {
	m := &matcher{g: g, src: src, farthest: -1, memo: map[memoKey]memoEntry{}}
	root := &Match{Rule: g.start}
	end, ok := m.match(&ref{g.start}, 0)
	if ok {
		end, ok = m.end(end)
	}
	if !ok {
		return nil, m.failure()
	}
	root.From = 0
	root.To = end
	root.Children = m.children
	if len(root.Children) == 1 && root.Children[0].Rule == g.start {
		return root.Children[0], nil
	}
	return root, nil
}

// Holds the mutable state of one Match call.
type matcher struct {
	g        *Grammar
	src      string
	children []*Match
	stack    []string
	// Number of enclosing Not's. Failures inside them are not reported.
	silent int
	// Start and description of the innermost enclosing Token.
	inToken    bool
	tokenStart int
	tokenDesc  string

	farthest  int
	expected  map[string]bool
	ruleStack []string

	// Results of rule references, keyed by where they were tried. Without
	// it, unclosed nesting makes backtracking exponential.
	memo map[memoKey]memoEntry
}

type memoKey struct {
	rule   string
	pos    int
	silent bool
}

type memoEntry struct {
	end      int
	ok       bool
	children []*Match
}

func (m *matcher) match(e Expr, pos int) (int, bool) {
	return e.match(m, pos)
}

func (m *matcher) end(pos int) (int, bool) {
	pos, ok := m.skipTrivia(pos)
	if !ok {
		return pos, false
	}
	if pos != len(m.src) {
		m.fail(pos, "end of input")
		return pos, false
	}
	return pos, true
}

// Records that a terminal described by desc was expected at pos.
func (m *matcher) fail(pos int, desc string) {
	if m.silent > 0 {
		return
	}
	if m.inToken && pos == m.tokenStart {
		desc = m.tokenDesc
	}
	if pos > m.farthest {
		m.farthest = pos
		m.expected = map[string]bool{}
		m.ruleStack = append([]string(nil), m.stack...)
	}
	if pos == m.farthest {
		m.expected[desc] = true
	}
}

func (m *matcher) failure() *Failure {
	expected := make([]string, 0, len(m.expected))
	for desc := range m.expected {
		expected = append(expected, desc)
	}
	sort.Strings(expected)
	pos := m.farthest
	if pos < 0 {
		pos = 0
	}
	return &Failure{
		Pos:       pos,
		RuleStack: m.ruleStack,
		Expected:  expected,
		AtEnd:     pos == len(m.src),
	}
}
