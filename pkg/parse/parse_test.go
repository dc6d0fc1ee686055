package parse_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.wl.sh/pkg/diag"
	. "src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/testutil"
	"src.wl.sh/pkg/tt"
)

var Args = tt.Args

func fullFormOf(code string) (string, error) {
	n, err := Parse(SourceForTest(code))
	if err != nil {
		return "", err
	}
	return FullForm(n), nil
}

func TestParse_FullForm(t *testing.T) {
	tt.Test(t, tt.Fn("fullFormOf", fullFormOf), tt.Table{
		// Atoms.
		Args("x").Rets("x", nil),
		Args("$Line").Rets("$Line", nil),
		Args("Global`x").Rets("Global`x", nil),
		Args("αβ1").Rets("αβ1", nil),
		Args("42").Rets("42", nil),
		Args("1.5").Rets("1.5", nil),
		Args(".5").Rets(".5", nil),
		Args("1.").Rets("1.", nil),
		Args("1.5*^-3").Rets("1.5*^-3", nil),
		Args("2*^3").Rets("2000", nil),
		Args("16^^ff").Rets("255", nil),
		Args(`"a\"b\n\:0041"`).Rets(`"a\"b\nA"`, nil),

		// Precedence.
		Args("1+2*3").Rets("Plus[1, Times[2, 3]]", nil),
		Args("2*3+1").Rets("Plus[Times[2, 3], 1]", nil),
		Args("-a^2").Rets("Minus[Power[a, 2]]", nil),
		Args("-a b").Rets("Times[Minus[a], b]", nil),
		Args("a + b!").Rets("Plus[a, Factorial[b]]", nil),
		Args("!a && b").Rets("And[Not[a], b]", nil),
		Args("!a == b").Rets("Not[Equal[a, b]]", nil),
		Args("x = a -> b").Rets("Set[x, Rule[a, b]]", nil),
		Args("a; b &").Rets("CompoundExpression[a, Function[b]]", nil),
		Args("a != b").Rets("Unequal[a, b]", nil),
		Args("a! = b").Rets("Set[Factorial[a], b]", nil),
		Args("x++ + ++y").Rets("Plus[Increment[x], PreIncrement[y]]", nil),

		// Associativity.
		Args("1+2+3").Rets("Plus[1, 2, 3]", nil),
		Args("a/b/c").Rets("Divide[Divide[a, b], c]", nil),
		Args("a^b^c").Rets("Power[a, Power[b, c]]", nil),
		Args("a = b = c").Rets("Set[a, Set[b, c]]", nil),
		Args("a + b - c").Rets("Subtract[Plus[a, b], c]", nil),
		Args("a - b + c").Rets("Plus[Subtract[a, b], c]", nil),
		Args("a == b < c").Rets("Less[Equal[a, b], c]", nil),

		// Juxtaposition and prefix/infix disambiguation.
		Args("2 x").Rets("Times[2, x]", nil),
		Args("2 x * y z").Rets("Times[2, x, y, z]", nil),
		Args("a b + c").Rets("Plus[Times[a, b], c]", nil),
		Args("a -b").Rets("Subtract[a, b]", nil),
		Args("a - -b").Rets("Subtract[a, Minus[b]]", nil),
		Args("a (b + c)").Rets("Times[a, Plus[b, c]]", nil),
		Args("a! b").Rets("Times[Factorial[a], b]", nil),

		// Missing right operands.
		Args("a;").Rets("CompoundExpression[a, Null]", nil),
		Args("a; b;").Rets("CompoundExpression[a, b, Null]", nil),
		Args("a;;b").Rets("CompoundExpression[a, Null, b]", nil),

		// Brackets.
		Args("f[x, y]").Rets("f[x, y]", nil),
		Args("f[]").Rets("f[]", nil),
		Args("f[x][y]").Rets("f[x][y]", nil),
		Args("f [x]").Rets("f[x]", nil),
		Args("{1, 2, {}}").Rets("List[1, 2, List[]]", nil),
		Args("m[[1, 2]]").Rets("Part[m, 1, 2]", nil),
		Args("f[g[x]]").Rets("f[g[x]]", nil),
		Args("m[[f[1]]]").Rets("Part[m, f[1]]", nil),
		Args("(a + b) c").Rets("Times[Plus[a, b], c]", nil),
		Args("(f)[x]").Rets("f[x]", nil),
		Args("{1,2}.{3,4}").Rets("Dot[List[1, 2], List[3, 4]]", nil),

		// Trivia.
		Args("1 (* one *) + (* two (* nested *) *) 2").Rets("Plus[1, 2]", nil),
		Args("f[\n  x,\n  y\n]").Rets("f[x, y]", nil),
	})
}

func TestParse_StructureAndRanges(t *testing.T) {
	n, err := Parse(SourceForTest("1+2*3"))
	if err != nil {
		t.Fatal(err)
	}
	table := DefaultTable()
	plus := table.Lookup("+", InfixOp)
	times := table.Lookup("*", InfixOp)
	want := &Infix{diag.Ranging{From: 0, To: 5}, plus, []Node{
		&Leaf{diag.Ranging{From: 0, To: 1}, Integer, "1"},
		&Infix{diag.Ranging{From: 2, To: 5}, times, []Node{
			&Leaf{diag.Ranging{From: 2, To: 3}, Integer, "2"},
			&Leaf{diag.Ranging{From: 4, To: 5}, Integer, "3"},
		}},
	}}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("AST (-want +got):\n%s", diff)
	}

	n, _ = Parse(SourceForTest(" -f[x]! "))
	if got, want := n.Range(), (diag.Ranging{From: 1, To: 7}); got != want {
		t.Errorf("range of prefix expression: got %v, want %v", got, want)
	}
	post := n.(*Prefix).Operand
	if got, want := post.Range(), (diag.Ranging{From: 2, To: 7}); got != want {
		t.Errorf("range of postfix expression: got %v, want %v", got, want)
	}
}

func TestParse_FlatRunIsOneNode(t *testing.T) {
	n, err := Parse(SourceForTest("1+2+3"))
	if err != nil {
		t.Fatal(err)
	}
	infix, ok := n.(*Infix)
	if !ok || len(infix.Operands) != 3 {
		t.Errorf("got %s, want a single Plus node with 3 operands", FullForm(n))
	}
}

func TestParse_FlatRunStopsAtOtherPrecedence(t *testing.T) {
	table, err := ParseTable([]byte(`operators:
  - {symbol: "<>", name: Join, precedence: 20, assoc: flat}
  - {symbol: "+", name: Join, precedence: 10, assoc: flat}`))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(table)
	if err != nil {
		t.Fatal(err)
	}
	for code, want := range map[string]string{
		"a <> b + c":      "Join[Join[a, b], c]",
		"a + b <> c + d":  "Join[a, Join[b, c], d]",
		"a <> b <> c + d": "Join[Join[a, b, c], d]",
	} {
		n, err := p.Parse(SourceForTest(code))
		if err != nil {
			t.Errorf("Parse(%q) -> error %v", code, err)
			continue
		}
		if got := FullForm(n); got != want {
			t.Errorf("Parse(%q) -> %s, want %s", code, got, want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		code       string
		incomplete bool
		from, to   int
		message    string
	}{
		{"{1,2,", true, 5, 5, "unexpected end of input"},
		{"f[x", true, 3, 3, ""},
		{"(1 + 2", true, 6, 6, ""},
		{"1 +", true, 3, 3, ""},
		{`"abc`, true, 4, 4, ""},
		{`"abc\`, true, 5, 5, ""},
		{"1 (* open", true, 9, 9, ""},
		{"", true, 0, 0, "empty input"},
		{" (* only a comment *) ", true, 22, 22, "empty input"},
		{"m[[1]", true, 5, 5, ""},
		{"x :", true, 3, 3, ""},
		{"1 + )", false, 4, 5, "unexpected ')'"},
		{"f[x)", false, 3, 4, "unexpected ')'"},
		{`"a\qb"`, false, 3, 4, "unexpected 'q', should be \":\" or escape sequence"},
		{"1 ] 2", false, 2, 3, "unexpected ']'"},
		{"2^^12", false, 0, 5, "invalid digits"},
		{"37^^1", false, 0, 5, "invalid base 37"},
		{"a @ b", false, 2, 3, "unexpected '@'"},
	}
	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			_, err := Parse(SourceForTest(test.code))
			if err == nil {
				t.Fatalf("got no error")
			}
			if IsIncomplete(err) != test.incomplete {
				t.Errorf("IsIncomplete = %v, want %v (error %v)", !test.incomplete, test.incomplete, err)
			}
			var r diag.Ranging
			var msg string
			var syntaxErr *SyntaxError
			var incompleteErr *IncompleteError
			switch {
			case errors.As(err, &syntaxErr):
				r, msg = syntaxErr.Range(), syntaxErr.Message
			case errors.As(err, &incompleteErr):
				r, msg = incompleteErr.Range(), incompleteErr.Message
			default:
				t.Fatalf("got error of type %T", err)
			}
			if r.From != test.from || r.To != test.to {
				t.Errorf("error range %v, want %d-%d", r, test.from, test.to)
			}
			if !strings.HasPrefix(msg, test.message) {
				t.Errorf("error message %q, want prefix %q", msg, test.message)
			}
		})
	}
}

func TestParse_SyntaxErrorHasExpectedAndPosition(t *testing.T) {
	_, err := Parse(Source{Name: "[tty]", Code: "f[1,\n  2 + ]"})
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("got error %v, want *SyntaxError", err)
	}
	if got, want := syntaxErr.Context.Position(), (diag.Position{Line: 2, Column: 7}); got != want {
		t.Errorf("position %v, want %v", got, want)
	}
	if len(syntaxErr.Tag.Expected) == 0 || len(syntaxErr.Tag.RuleStack) == 0 {
		t.Errorf("error carries no expected terminals or rule stack: %+v", syntaxErr.Tag)
	}
	wantErr := "syntax error: [tty]:2:7: unexpected ']', should be "
	if !strings.HasPrefix(err.Error(), wantErr) {
		t.Errorf("Error() = %q, want prefix %q", err.Error(), wantErr)
	}
}

func TestParse_ContinuationEqualsDirect(t *testing.T) {
	_, err := Parse(SourceForTest("{1,2,"))
	if !IsIncomplete(err) {
		t.Fatalf("{1,2, is not incomplete: %v", err)
	}
	joined := mustParse(t, "{1,2,"+"\n"+"3}")
	direct := mustParse(t, "{1,2,3}")
	if diff := cmp.Diff(direct, joined, ignoreRanges); diff != "" {
		t.Errorf("joined parse differs from direct parse (-direct +joined):\n%s", diff)
	}
}

func TestParse_Idempotent(t *testing.T) {
	for _, code := range roundTripCodes {
		a := mustParse(t, code)
		b := mustParse(t, code)
		if !cmp.Equal(a, b) {
			t.Errorf("parsing %q twice gives different results", code)
		}
	}
}

var roundTripCodes = []string{
	"1+2*3",
	"a = f[xval, {1, 2.5, \"s\\t\"}]",
	"-a^-b! + c",
	"- -x",
	"x!!",
	"a; b; ",
	"f[x][[1, 2]] . g[y] <> \"z\"",
	"a -> b :> c /. d",
	"(a + b) (c - d) / e",
	"16^^ff + 1.5*^-3 + .5",
	"x === y =!= z",
	"a && !b || c",
	"f[x] & ",
	"x++ + --y",
}

func TestRender_RoundTrip(t *testing.T) {
	for _, code := range roundTripCodes {
		n, err := Parse(SourceForTest(code))
		if err != nil {
			t.Errorf("Parse(%q): %v", code, err)
			continue
		}
		rendered := Render(n)
		n2, err := Parse(SourceForTest(rendered))
		if err != nil {
			t.Errorf("Parse(Render(%q)) = Parse(%q): %v", code, rendered, err)
			continue
		}
		if diff := cmp.Diff(n, n2, ignoreRanges); diff != "" {
			t.Errorf("round trip of %q via %q (-want +got):\n%s", code, rendered, diff)
		}
	}
}

func TestRender(t *testing.T) {
	tt.Test(t, tt.Fn("renderOf", renderOf), tt.Table{
		Args("1+2*3").Rets("1 + 2 * 3"),
		Args("f[x,y]").Rets("f[x, y]"),
		Args("{1,2}").Rets("{1, 2}"),
		Args("a;").Rets("a; "),
		Args("2x").Rets("2 * x"),
		Args("- -x").Rets("- -x"),
		Args(`"a\"b"`).Rets(`"a\"b"`),
		Args("m[[1]]").Rets("m[[1]]"),
		Args("(a)").Rets("(a)"),
	})
}

func renderOf(code string) string {
	n, err := Parse(SourceForTest(code))
	if err != nil {
		return "error: " + err.Error()
	}
	return Render(n)
}

func TestTokens(t *testing.T) {
	tokens, err := Tokens(SourceForTest(`f[x, "s"] + -1.5 (* c *)`))
	if err != nil {
		t.Fatal(err)
	}
	type tok struct {
		Kind TokenKind
		Text string
	}
	var got []tok
	for _, token := range tokens {
		got = append(got, tok{token.Kind, token.Text})
	}
	want := []tok{
		{SymbolToken, "f"}, {BracketToken, "["}, {SymbolToken, "x"},
		{OperatorToken, ","}, {StringToken, `"s"`}, {BracketToken, "]"},
		{OperatorToken, "+"}, {OperatorToken, "-"}, {NumberToken, "1.5"},
		{EndOfInputToken, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
	if last := tokens[len(tokens)-1]; last.From != 24 {
		t.Errorf("EndOfInput token at %d, want 24", last.From)
	}
}

func TestTokens_Empty(t *testing.T) {
	tokens, err := Tokens(SourceForTest("  "))
	if err != nil || len(tokens) != 1 || tokens[0].Kind != EndOfInputToken {
		t.Errorf("Tokens of blank input -> %v, %v", tokens, err)
	}
}

func TestInnermost(t *testing.T) {
	n := mustParse(t, "f[a + bc]")
	inner := Innermost(n, 7)
	if leaf, ok := inner.(*Leaf); !ok || leaf.Value != "bc" {
		t.Errorf("Innermost -> %#v, want leaf bc", inner)
	}
	if Innermost(n, 20) != nil {
		t.Errorf("Innermost out of range should be nil")
	}
}

var ignoreRanges = cmpopts.IgnoreTypes(diag.Ranging{})

func mustParse(t *testing.T, code string) Node {
	t.Helper()
	n, err := Parse(SourceForTest(code))
	if err != nil {
		t.Fatalf("Parse(%q): %v", code, err)
	}
	return n
}

func TestParse_DeepUnclosedNesting(t *testing.T) {
	for _, code := range []string{
		strings.Repeat("a+(", 30),
		strings.Repeat("f[a-(", 30),
		strings.Repeat("{a,(", 30),
	} {
		start := time.Now()
		_, err := Parse(SourceForTest(code))
		if d := time.Since(start); d > testutil.Scaled(2*time.Second) {
			t.Errorf("Parse(%q) took %v", code, d)
		}
		if !IsIncomplete(err) {
			t.Errorf("Parse(%q) -> error %v, want incomplete", code, err)
		}
	}
}
