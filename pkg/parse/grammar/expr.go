package grammar

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr is a parsing expression. Values are created with the functions in this
// file and are never modified afterwards.
type Expr interface {
	match(m *matcher, pos int) (int, bool)
	subexprs() []Expr
}

func walk(e Expr, f func(Expr)) {
	f(e)
	for _, sub := range e.subexprs() {
		walk(sub, f)
	}
}

// Lit matches the string s literally.
func Lit(s string) Expr { return &lit{s} }

type lit struct{ s string }

func (e *lit) match(m *matcher, pos int) (int, bool) {
	if strings.HasPrefix(m.src[pos:], e.s) {
		return pos + len(e.s), true
	}
	if rest := m.src[pos:]; len(rest) < len(e.s) && strings.HasPrefix(e.s, rest) {
		// The input ends partway through the literal.
		m.fail(len(m.src), strconv.Quote(e.s))
	} else {
		m.fail(pos, strconv.Quote(e.s))
	}
	return pos, false
}

func (e *lit) subexprs() []Expr { return nil }

// Class matches one rune satisfying pred. The description is used in
// failures.
func Class(desc string, pred func(rune) bool) Expr { return &class{desc, pred} }

type class struct {
	desc string
	pred func(rune) bool
}

func (e *class) match(m *matcher, pos int) (int, bool) {
	if pos < len(m.src) {
		r, size := utf8.DecodeRuneInString(m.src[pos:])
		if e.pred(r) {
			return pos + size, true
		}
	}
	m.fail(pos, e.desc)
	return pos, false
}

func (e *class) subexprs() []Expr { return nil }

// Seq matches all of es in order. An empty Seq always matches.
func Seq(es ...Expr) Expr { return &seq{es} }

type seq struct{ es []Expr }

func (e *seq) match(m *matcher, pos int) (int, bool) {
	n := len(m.children)
	p := pos
	for _, sub := range e.es {
		var ok bool
		p, ok = sub.match(m, p)
		if !ok {
			m.children = m.children[:n]
			return p, false
		}
	}
	return p, true
}

func (e *seq) subexprs() []Expr { return e.es }

// Choice matches the first of es that matches.
func Choice(es ...Expr) Expr { return &choice{es} }

type choice struct{ es []Expr }

func (e *choice) match(m *matcher, pos int) (int, bool) {
	n := len(m.children)
	for _, sub := range e.es {
		if end, ok := sub.match(m, pos); ok {
			return end, true
		}
		m.children = m.children[:n]
	}
	return pos, false
}

func (e *choice) subexprs() []Expr { return e.es }

// Star matches e zero or more times, as many times as possible.
func Star(e Expr) Expr { return &star{e} }

type star struct{ e Expr }

func (e *star) match(m *matcher, pos int) (int, bool) {
	for {
		n := len(m.children)
		end, ok := e.e.match(m, pos)
		if !ok || end == pos {
			m.children = m.children[:n]
			return pos, true
		}
		pos = end
	}
}

func (e *star) subexprs() []Expr { return []Expr{e.e} }

// Plus matches e one or more times.
func Plus(e Expr) Expr { return Seq(e, Star(e)) }

// Opt matches e or nothing.
func Opt(e Expr) Expr { return Choice(e, Seq()) }

// Not succeeds without consuming anything when e does not match at the
// current position, and fails otherwise.
func Not(e Expr) Expr { return &not{e} }

type not struct{ e Expr }

func (e *not) match(m *matcher, pos int) (int, bool) {
	n := len(m.children)
	m.silent++
	_, ok := e.e.match(m, pos)
	m.silent--
	m.children = m.children[:n]
	return pos, !ok
}

func (e *not) subexprs() []Expr { return []Expr{e.e} }

// Ref matches the rule with the given name. Refs are resolved when matching,
// so rules may refer to themselves and to each other.
func Ref(name string) Expr { return &ref{name} }

type ref struct{ name string }

func (e *ref) match(m *matcher, pos int) (int, bool) {
	// Failures are recorded the first time a key is tried; replaying an
	// entry can never move the farthest failure.
	key := memoKey{e.name, pos, m.silent > 0}
	if entry, ok := m.memo[key]; ok {
		if entry.ok {
			m.children = append(m.children, entry.children...)
		}
		return entry.end, entry.ok
	}
	n := len(m.children)
	m.stack = append(m.stack, e.name)
	end, ok := m.g.rules[e.name].match(m, pos)
	m.stack = m.stack[:len(m.stack)-1]
	entry := memoEntry{end: end, ok: ok}
	if ok {
		entry.children = append([]*Match(nil), m.children[n:]...)
	} else {
		m.children = m.children[:n]
	}
	m.memo[key] = entry
	return end, ok
}

func (e *ref) subexprs() []Expr { return nil }

// Node matches e and captures the match as a Match node with the given rule
// name. The Match nodes captured by e become its children.
func Node(rule string, e Expr) Expr { return &node{rule, e} }

type node struct {
	rule string
	e    Expr
}

func (e *node) match(m *matcher, pos int) (int, bool) {
	saved := m.children
	m.children = nil
	end, ok := e.e.match(m, pos)
	if !ok {
		m.children = saved
		return end, false
	}
	captured := &Match{Rule: e.rule, From: pos, To: end, Children: m.children}
	if len(captured.Children) > 0 {
		// Leading trivia is not part of the node.
		captured.From = captured.Children[0].From
	}
	m.children = append(saved, captured)
	return end, true
}

func (e *node) subexprs() []Expr { return []Expr{e.e} }

// Token skips trivia, then matches e and captures the match as a leaf Match
// node with the given rule name. A failure at the start of the token is
// reported with desc rather than the terminals inside e. Failures inside a
// token that matches are not reported.
func Token(rule, desc string, e Expr) Expr { return &token{rule, desc, e} }

// Keyword is a Token that matches the string s.
func Keyword(rule, s string) Expr { return Token(rule, strconv.Quote(s), Lit(s)) }

type token struct {
	rule string
	desc string
	e    Expr
}

func (e *token) match(m *matcher, pos int) (int, bool) {
	start, ok := m.skipTrivia(pos)
	if !ok {
		return start, false
	}
	n := len(m.children)
	m.silent++
	end, ok := e.e.match(m, start)
	m.silent--
	m.children = m.children[:n]
	if !ok {
		// Match again, this time recording failures.
		inToken, tokenStart, tokenDesc := m.inToken, m.tokenStart, m.tokenDesc
		m.inToken, m.tokenStart, m.tokenDesc = true, start, e.desc
		end, _ = e.e.match(m, start)
		m.inToken, m.tokenStart, m.tokenDesc = inToken, tokenStart, tokenDesc
		m.children = m.children[:n]
		return end, false
	}
	m.children = append(m.children, &Match{Rule: e.rule, From: start, To: end})
	return end, true
}

func (e *token) subexprs() []Expr { return []Expr{e.e} }
