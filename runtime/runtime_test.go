package runtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/resolver"
)

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	in := NewInterpreter(lang.WithOutput(&out))
	err := EvaluateString(in, src)
	return out.String(), err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatalf("EvaluateString returned error: %v\noutput so far:\n%s", err, out)
	}
	return out
}

func expectOutput(t *testing.T, src string, lines ...string) {
	t.Helper()
	got := strings.Split(strings.TrimSuffix(mustRun(t, src), "\n"), "\n")
	if diff := cmp.Diff(lines, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmeticAndPrinting(t *testing.T) {
	expectOutput(t, `
print 1 + 2;
print 5 - 8;
print 6 * 7;
print 21 / 2;
print 10 / 4 * 2;
print -(3);
print 1.5 + 1.5;
print 100000000;
print 0.0001;
`, "3", "-3", "42", "10.5", "5", "-3", "3", "1.0E8", "1.0E-4")
}

func TestStringConcatenationCoercion(t *testing.T) {
	expectOutput(t, `
print "a" + "b";
print "a" + 1;
print 1 + "a";
print "n=" + 2.5;
print "x" + nil;
print true + "!";
`, "ab", "a1", "1a", "n=2.5", "xnil", "true!")
}

func TestTruthinessAndEquality(t *testing.T) {
	expectOutput(t, `
print !nil;
print !0;
print !"";
print !false;
print nil == nil;
print nil == false;
print 1 == 1;
print "1" == 1;
print "ab" == "a" + "b";
print 1 != 2;
print clock == clock;
`, "true", "false", "false", "true", "true", "false", "true", "false", "true", "true", "true")
}

func TestComparison(t *testing.T) {
	expectOutput(t, `
print 1 < 2;
print 2 <= 2;
print 3 > 4;
print 4 >= 5;
`, "true", "true", "false", "false")
}

func TestLogicalShortCircuit(t *testing.T) {
	expectOutput(t, `
var calls = 0;
fun sideEffect() {
	calls = calls + 1;
	return true;
}
print false and sideEffect();
print true or sideEffect();
print calls;
print nil or "default";
print 1 and 2;
print true and sideEffect();
print calls;
`, "false", "true", "0", "default", "2", "true", "1")
}

func TestTernaryEvaluatesOneBranch(t *testing.T) {
	expectOutput(t, `
var hits = "";
fun mark(s) { hits = hits + s; return s; }
print true ? mark("a") : mark("b");
print nil ? mark("c") : mark("d");
print hits;
`, "a", "d", "ad")
}

func TestBlockShadowing(t *testing.T) {
	expectOutput(t, `
var x = "global";
{
	var x = "outer";
	{
		var x = "inner";
		x = "inner changed";
		print x;
	}
	print x;
}
print x;
`, "inner changed", "outer", "global")
}

func TestClosureCounters(t *testing.T) {
	expectOutput(t, `
fun makeCounter() {
	var count = 0;
	fun counter() {
		count = count + 1;
		return count;
	}
	return counter;
}
var a = makeCounter();
var b = makeCounter();
print a();
print a();
print b();
print a();
`, "1", "2", "1", "3")
}

func TestClosureCapturesDeclarationScope(t *testing.T) {
	// The closure must keep seeing the outer "a" even after a shadowing
	// declaration appears in the same block.
	expectOutput(t, `
var a = "global";
{
	fun showA() {
		print a;
	}
	showA();
	var a = "block";
	showA();
}
`, "global", "global")
}

func TestClosureOutlivesBlock(t *testing.T) {
	expectOutput(t, `
var get;
var set;
{
	var hidden = 1;
	fun g() { return hidden; }
	fun s(v) { hidden = v; }
	get = g;
	set = s;
}
print get();
set(42);
print get();
`, "1", "42")
}

func TestRecursiveFibonacci(t *testing.T) {
	expectOutput(t, `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
for (var i = 0; i < 10; i = i + 1) {
	print fib(i);
}
`, "0", "1", "1", "2", "3", "5", "8", "13", "21", "34")
}

func TestBreakTerminatesInnermostLoop(t *testing.T) {
	expectOutput(t, `
var i = 0;
while (i < 3) {
	var j = 0;
	while (true) {
		if (j == 2) break;
		j = j + 1;
	}
	print i + ":" + j;
	i = i + 1;
}
`, "0:2", "1:2", "2:2")
}

func TestReturnUnwindsNestedBlocksAndLoops(t *testing.T) {
	expectOutput(t, `
fun find() {
	var i = 0;
	while (true) {
		{
			if (i == 3) {
				return "found " + i;
			}
			print "looking";
		}
		i = i + 1;
	}
	print "unreachable";
}
print find();
fun nothing() { return; }
print nothing();
fun implicit() { var x = 1; }
print implicit();
`, "looking", "looking", "looking", "found 3", "nil", "nil")
}

func TestFunctionValuesPrint(t *testing.T) {
	expectOutput(t, `
fun hello() {}
print hello;
print clock;
`, "<fn hello>", "<native fn>")
}

func TestAssignmentIsAnExpression(t *testing.T) {
	expectOutput(t, `
var a;
var b;
print a = b = 3;
print a + b;
`, "3", "6")
}

func TestClockNative(t *testing.T) {
	out := mustRun(t, `
var start = clock();
print start > 0;
print clock() >= start;
`)
	if out != "true\ntrue\n" {
		t.Fatalf("unexpected clock output %q", out)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    error
		message string
		line    int
	}{
		{"add-bool", "print 1 + true;", lang.ErrType, "Operands must be two numbers or two strings.", 1},
		{"negate-string", `print -"a";`, lang.ErrType, "Operand must be a number.", 1},
		{"compare-nil", "print nil < 1;", lang.ErrType, "Operands must be numbers.", 1},
		{"divide-zero", "print 1 / 0;", lang.ErrDivisionByZero, "Division by zero not allowed.", 1},
		{"divide-string-first", `print "a" / 0;`, lang.ErrType, "Operands must be numbers.", 1},
		{"call-nil", "nil();", lang.ErrNotCallable, "Can only call functions.", 1},
		{"call-string", `"f"();`, lang.ErrNotCallable, "Can only call functions.", 1},
		{"arity", "fun f(a, b) {}\nf(1);", lang.ErrArityMismatch, "Expected 2 arguments but got 1.", 2},
		{"native-arity", "clock(1);", lang.ErrArityMismatch, "Expected 0 arguments but got 1.", 1},
		{"undeclared-read", "print missing;", lang.ErrUnboundVariable, "Undefined variable 'missing'.", 1},
		{"undeclared-assign", "\n\nmissing = 1;", lang.ErrUnboundVariable, "Undefined variable 'missing'.", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProgram(t, tt.src)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var rerr *lang.RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *lang.RuntimeError, got %T", err)
			}
			if rerr.Message != tt.message {
				t.Fatalf("message = %q, want %q", rerr.Message, tt.message)
			}
			if rerr.Line() != tt.line {
				t.Fatalf("line = %d, want %d", rerr.Line(), tt.line)
			}
		})
	}
}

func TestRuntimeErrorKeepsEarlierEffects(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(lang.WithOutput(&out))
	err := EvaluateString(in, `
var a = 1;
print a;
a = 2;
print a / 0;
print "never";
`)
	if !errors.Is(err, lang.ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if out.String() != "1\n" {
		t.Fatalf("expected only first print, got %q", out.String())
	}

	// The next top-level run sees the mutation made before the error.
	out.Reset()
	if err := EvaluateString(in, "print a;"); err != nil {
		t.Fatalf("follow-up run: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("expected assignment to persist, got %q", out.String())
	}
}

func TestErrorInsideCallRestoresEnvironment(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(lang.WithOutput(&out))
	err := EvaluateString(in, `
var x = "global";
fun boom() {
	var x = "local";
	{
		var y = nil;
		return y();
	}
}
boom();
`)
	if !errors.Is(err, lang.ErrNotCallable) {
		t.Fatalf("expected not-callable error, got %v", err)
	}
	if err := EvaluateString(in, "var z = 1; print x;"); err != nil {
		t.Fatalf("follow-up run: %v", err)
	}
	if out.String() != "global\n" {
		t.Fatalf("expected global frame to be active again, got %q", out.String())
	}
	if in.Globals().Has("y") {
		t.Fatalf("block-local binding leaked into globals")
	}
}

func TestStaticErrorsStopBeforeExecution(t *testing.T) {
	out, err := runProgram(t, `
print "before";
return 1;
`)
	var rerr *resolver.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected resolver error, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected nothing to execute, got %q", out)
	}
}

func TestInteractiveEcho(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(lang.WithOutput(&out))
	echoed, err := Run(in, `var a = 2; a * 21; print "p"; "s" + a;`, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"42", "s2"}, echoed); diff != "" {
		t.Fatalf("echo mismatch (-want +got):\n%s", diff)
	}
	if out.String() != "p\n" {
		t.Fatalf("expected print output, got %q", out.String())
	}

	echoed, err = Run(in, "a;", false)
	if err != nil || len(echoed) != 0 {
		t.Fatalf("expected no echo outside interactive mode, got %v %v", echoed, err)
	}
}

func TestInteractiveStateCarriesAcrossRuns(t *testing.T) {
	in := NewInterpreter(lang.WithOutput(&bytes.Buffer{}))
	steps := []struct {
		src  string
		echo []string
	}{
		{"fun add(a, b) { return a + b; }", nil},
		{"var total = add(1, 2);", nil},
		{"total;", []string{"3"}},
		{"{ var total = 10; total = total + 1; }", nil},
		{"total = add(total, 4);", []string{"7"}},
	}
	for _, step := range steps {
		echoed, err := Run(in, step.src, true)
		if err != nil {
			t.Fatalf("Run(%q): %v", step.src, err)
		}
		if diff := cmp.Diff(step.echo, echoed); diff != "" {
			t.Fatalf("Run(%q) echo mismatch (-want +got):\n%s", step.src, diff)
		}
	}
}
