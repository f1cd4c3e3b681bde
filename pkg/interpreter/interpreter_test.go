package interpreter

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/Shadlock0133/lox/pkg/parser"
	"github.com/Shadlock0133/lox/pkg/resolver"
	"github.com/Shadlock0133/lox/pkg/scanner"
)

func run(t *testing.T, source string) string {
	t.Helper()
	output, err := interpret(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return output
}

func interpreterError(t *testing.T, source string) error {
	t.Helper()
	_, err := interpret(source)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	return err
}

func interpret(source string) (string, error) {
	tokens, err := scanner.Filtered(source)
	if err != nil {
		return "", err
	}
	statements, err := parser.New(tokens).Parse()
	if err != nil {
		return "", err
	}
	bindings, err := resolver.New().Resolve(statements)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	interp := New(&output)
	interp.BindLocals(bindings)
	err = interp.Interpret(statements)
	return output.String(), err
}

func TestSimple(t *testing.T) {
	cases := map[string]string{
		`print "one";`:              "one\n",
		"print true;":               "true\n",
		"print 1 + 2;":              "3\n",
		"var a = 1; print a;":       "1\n",
		"var a = 1; print a = 2;":   "2\n",
		"class Foo {} print Foo;":   "Foo\n",
		"class Foo {} print Foo();": "Foo instance\n",
		"print nil;":                "nil\n",
		"print -0;":                 "-0\n",
		"print 0.1 + 0.2 == 0.3;":   "false\n",
		"print 1 <= 1 and 2 < 3;":   "true\n",
		"print !nil;":               "true\n",
		"print nil == false;":       "false\n",
		`print "a" == "a";`:         "true\n",
		"fun f() {} print f;":       "<fn f>\n",
		"fun f() {} print f();":     "nil\n",
		"print clock;":              "<native fn>\n",
	}
	for source, want := range cases {
		if got := run(t, source); got != want {
			t.Fatalf("%s: expected %q, got %q", source, want, got)
		}
	}
}

func TestScopes(t *testing.T) {
	got := run(t, `var a = 1;
            var b = 1;
            print a;
            print b;
            {
                var a = 2;
                b = 2;
                print a;
                print b;
            }
            print a;
            print b;`)
	if got != "1\n1\n2\n2\n1\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	got := run(t, `var a = 1;
            {
                fun print_a() {
                    print a;
                }
                print_a(); // 1

                a = 2;
                print_a(); // 2

                var a = 3;
                print_a(); // 2, not 3
            }`)
	if got != "1\n2\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestCounterClosure(t *testing.T) {
	got := run(t, `fun makeCounter() {
                var i = 0;
                fun count() {
                    i = i + 1;
                    print i;
                }
                return count;
            }
            var counter = makeCounter();
            counter();
            counter();`)
	if got != "1\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLocalScopeLeaksNothing(t *testing.T) {
	err := interpreterError(t, `fun foo() {
                var a = 1;
            }
            foo();
            print a;`)
	if err.Error() != "[line 5:19] Runtime Error at 'a': Undefined variable 'a'." {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestFactorial(t *testing.T) {
	want := 1.0
	for i := 2; i <= 20; i++ {
		want *= float64(i)
	}
	got := run(t, `fun fact(a) {
                if (a <= 1)
                    return 1;
                else
                    return a * fact(a - 1);
            }
            print fact(20);`)
	if got != strconv.FormatFloat(want, 'f', -1, 64)+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFibonacci(t *testing.T) {
	got := run(t, `fun fib(n) {
                if (n <= 1) return n;
                return fib(n - 2) + fib(n - 1);
            }
            for (var i = 0; i < 10; i = i + 1) {
                print fib(i);
            }`)
	if got != "0\n1\n1\n2\n3\n5\n8\n13\n21\n34\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWhileAndBreak(t *testing.T) {
	got := run(t, `var i = 0;
            while (true) {
                i = i + 1;
                if (i > 3) break;
                print i;
            }
            print "done";`)
	if got != "1\n2\n3\ndone\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestBreakLeavesInnermostLoop(t *testing.T) {
	got := run(t, `for (var i = 0; i < 2; i = i + 1) {
                for (var j = 0; j < 10; j = j + 1) {
                    if (j == 1) break;
                    print i + j;
                }
            }`)
	if got != "0\n1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestStringConcatenationCoercesNumbers(t *testing.T) {
	cases := map[string]string{
		`print "a" + "b";`:    "ab\n",
		`print "loop " + 1;`:  "loop 1\n",
		`print 1 + " loops";`: "1 loops\n",
		`print "v" + 1.5;`:    "v1.5\n",
		`print "" + true;`:    "true\n",
		`print "" + nil;`:     "nil\n",
	}
	for source, want := range cases {
		if got := run(t, source); got != want {
			t.Fatalf("%s: expected %q, got %q", source, want, got)
		}
	}
}

func TestBinaryOperatorErrors(t *testing.T) {
	cases := map[string]string{
		"print 1 + true;":  "Operands must begin with a string or be two numbers.",
		"print nil + nil;": "Operands must begin with a string or be two numbers.",
		"print 1 / 0;":     "Can't divide by zero.",
		`print 1 < "2";`:   "Operands must be a numbers.",
		`print "a" - "b";`: "Operands must be a numbers.",
		"print -nil;":      "Operand must be a number.",
	}
	for source, want := range cases {
		err := interpreterError(t, source)
		if !strings.HasSuffix(err.Error(), want) {
			t.Fatalf("%s: expected %q, got %q", source, want, err)
		}
	}
}

func TestLogicalOperatorsReturnOperand(t *testing.T) {
	cases := map[string]string{
		`print "hi" or 2;`:    "hi\n",
		"print nil or 2;":     "2\n",
		"print nil and 2;":    "nil\n",
		"print 1 and 2;":      "2\n",
		"print false or nil;": "nil\n",
	}
	for source, want := range cases {
		if got := run(t, source); got != want {
			t.Fatalf("%s: expected %q, got %q", source, want, got)
		}
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	got := run(t, `fun loud() {
                print "called";
                return true;
            }
            false and loud();
            true or loud();
            print "end";`)
	if got != "end\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestCallErrors(t *testing.T) {
	cases := map[string]string{
		`"not a function"();`:             "Can only call functions and classes.",
		"fun f(a, b) {} f(1);":            "Expected 2 arguments but got 1.",
		"fun f() {} f(1, 2);":             "Expected 0 arguments but got 2.",
		"class Foo { init(a) {} } Foo();": "Expected 1 arguments but got 0.",
	}
	for source, want := range cases {
		err := interpreterError(t, source)
		if !strings.HasSuffix(err.Error(), want) {
			t.Fatalf("%s: expected %q, got %q", source, want, err)
		}
	}
}

func TestClassFieldsAndMethods(t *testing.T) {
	got := run(t, `class Counter {
                init() {
                    this.count = 0;
                }
                increment() {
                    this.count = this.count + 1;
                    return this.count;
                }
            }
            var counter = Counter();
            print counter.increment();
            print counter.increment();
            print counter.count;`)
	if got != "1\n2\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestMethodsBindThis(t *testing.T) {
	got := run(t, `class Cake {
                taste() {
                    var adjective = "delicious";
                    print "The " + this.flavor + " cake is " + adjective + "!";
                }
            }
            var cake = Cake();
            cake.flavor = "German chocolate";
            var taste = cake.taste;
            taste();`)
	if got != "The German chocolate cake is delicious!\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	got := run(t, `class Doughnut {
                cook() {
                    print "Fry until golden brown.";
                }
            }
            class BostonCream < Doughnut {
                cook() {
                    super.cook();
                    print "Pipe full of custard and coat with chocolate.";
                }
            }
            BostonCream().cook();`)
	want := "Fry until golden brown.\nPipe full of custard and coat with chocolate.\n"
	if got != want {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSuperResolvesPastOverride(t *testing.T) {
	got := run(t, `class A {
                method() {
                    print "A method";
                }
            }
            class B < A {
                method() {
                    print "B method";
                }
                test() {
                    super.method();
                }
            }
            class C < B {}
            C().test();`)
	if got != "A method\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInitReturnsThis(t *testing.T) {
	got := run(t, `class Foo {
                init() {
                    print "init";
                    return;
                }
            }
            var foo = Foo();
            print foo.init();`)
	if got != "init\ninit\nFoo instance\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInheritedInitializer(t *testing.T) {
	got := run(t, `class Base {
                init(name) {
                    this.name = name;
                }
            }
            class Derived < Base {}
            print Derived("x").name;`)
	if got != "x\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPropertyErrors(t *testing.T) {
	cases := map[string]string{
		"1 .foo;":                            "Only instances have properties.",
		"1 .foo = 2;":                        "Only instances have fields.",
		"class Foo {} Foo().bar;":            "Undefined property 'bar'.",
		"class Foo {} Foo().bar(1);":         "Undefined property 'bar'.",
		"class Foo {} var i = Foo; i.x = 1;": "Only instances have fields.",
	}
	for source, want := range cases {
		err := interpreterError(t, source)
		if !strings.HasSuffix(err.Error(), want) {
			t.Fatalf("%s: expected %q, got %q", source, want, err)
		}
	}
}

func TestSuperclassMustBeClass(t *testing.T) {
	err := interpreterError(t, `var NotAClass = "so not a class";
            class Subclass < NotAClass {}`)
	if !strings.HasSuffix(err.Error(), "Superclass must be a class.") {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestUndefinedSuperMethod(t *testing.T) {
	err := interpreterError(t, `class A {}
            class B < A {
                test() {
                    super.missing();
                }
            }
            B().test();`)
	if !strings.HasSuffix(err.Error(), "Undefined property 'missing'.") {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestClock(t *testing.T) {
	got := run(t, "print clock() >= 0;")
	if got != "true\n" {
		t.Fatalf("unexpected output %q", got)
	}
	got = run(t, `var before = clock();
            var after = clock();
            print after >= before;`)
	if got != "true\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestReplKeepsGlobalsAcrossRuns(t *testing.T) {
	var output bytes.Buffer
	interp := New(&output)

	for _, line := range []string{"var a = 1;", "a = a + 1;", "print a;"} {
		tokens, err := scanner.Filtered(line)
		if err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		statements, err := parser.New(tokens).Parse()
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		bindings, err := resolver.New().Resolve(statements)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		interp.BindLocals(bindings)
		if err := interp.Interpret(statements); err != nil {
			t.Fatalf("interpret failed: %v", err)
		}
	}
	if output.String() != "2\n" {
		t.Fatalf("unexpected output %q", output.String())
	}
}

func TestRuntimeErrorLeavesGlobalsUsable(t *testing.T) {
	var output bytes.Buffer
	interp := New(&output)

	load := func(line string) error {
		tokens, err := scanner.Filtered(line)
		if err != nil {
			return err
		}
		statements, err := parser.New(tokens).Parse()
		if err != nil {
			return err
		}
		bindings, err := resolver.New().Resolve(statements)
		if err != nil {
			return err
		}
		interp.BindLocals(bindings)
		return interp.Interpret(statements)
	}

	if err := load("var a = 1;"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := load("print b;"); err == nil {
		t.Fatal("expected undefined variable error")
	}
	if err := load("print a;"); err != nil {
		t.Fatalf("interpreter must survive a runtime error: %v", err)
	}
	if output.String() != "1\n" {
		t.Fatalf("unexpected output %q", output.String())
	}
}
