package interp

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/oarkflow/log"
	"github.com/pkg/errors"

	"github.com/junhat6/go-monkey/object"
)

func TestEval(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5", "5"},
		{"!!true", "true"},
		{"5 + 5 + 5 + 5 - 10", "10"},
		{"if (1 > 2) { 10 }", "null"},
		{"let a = 5; let b = a; let c = a + b + 5; c;", "15"},
		{`"Hello" + " " + "World"`, "Hello World"},
		{`[1, 2 * 2, {"a": 1}]`, "[1, 4, {a:1}]"},
	}

	for _, tt := range tests {
		in := New()
		result, err := in.Eval(tt.input)
		if err != nil {
			t.Errorf("Eval(%q) returned error: %v", tt.input, err)
			continue
		}
		if result.Inspect() != tt.expected {
			t.Errorf("Eval(%q) wrong. want=%q, got=%q", tt.input, tt.expected, result.Inspect())
		}
	}
}

func TestEvalKeepsBindings(t *testing.T) {
	in := New()

	steps := []string{
		"let newAdder = fn(x) { fn(y) { x + y } };",
		"let addTwo = newAdder(2);",
	}
	for _, src := range steps {
		result, err := in.Eval(src)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", src, err)
		}
		if result != nil {
			t.Fatalf("Eval(%q) returned a value. got=%q", src, result.Inspect())
		}
	}

	result, err := in.Eval("addTwo(2);")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if result.Inspect() != "4" {
		t.Errorf("closure result wrong. got=%q", result.Inspect())
	}

	if _, ok := in.Environment().Get("addTwo"); !ok {
		t.Errorf("addTwo not bound in environment")
	}
}

func TestEvalParseError(t *testing.T) {
	in := New()

	result, err := in.Eval("let = 5; let x 1;")
	if result != nil {
		t.Errorf("result should be nil on parse error. got=%q", result.Inspect())
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error is not *ParseError. got=%T (%v)", err, err)
	}

	expected := []string{
		"expected next token to be IDENT, got = instead",
		"no prefix parse function for = found",
		"expected next token to be =, got INT instead",
	}
	if len(perr.Messages) != len(expected) {
		t.Fatalf("wrong number of messages. want=%d, got=%d: %v",
			len(expected), len(perr.Messages), perr.Messages)
	}
	for i, msg := range expected {
		if perr.Messages[i] != msg {
			t.Errorf("Messages[%d] wrong. want=%q, got=%q", i, msg, perr.Messages[i])
		}
	}

	if !strings.HasPrefix(err.Error(), "parse errors: ") {
		t.Errorf("Error() wrong. got=%q", err.Error())
	}
}

func TestParseErrorSingleMessage(t *testing.T) {
	err := &ParseError{Messages: []string{"no prefix parse function for ) found"}}
	if err.Error() != "parse error: no prefix parse function for ) found" {
		t.Errorf("Error() wrong. got=%q", err.Error())
	}
}

func TestEvalRuntimeError(t *testing.T) {
	in := New()

	result, err := in.Eval("5 + true;")
	if err == nil {
		t.Fatalf("expected runtime error")
	}

	errObj, ok := result.(*object.Error)
	if !ok {
		t.Fatalf("result is not *object.Error. got=%T", result)
	}
	if err.Error() != "type mismatch: INTEGER + BOOLEAN" {
		t.Errorf("error message wrong. got=%q", err.Error())
	}
	if errObj.Inspect() != "ERROR: type mismatch: INTEGER + BOOLEAN" {
		t.Errorf("Inspect() wrong. got=%q", errObj.Inspect())
	}

	var target *object.Error
	if !errors.As(err, &target) || target != errObj {
		t.Errorf("errors.As did not recover the same *object.Error")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	program, err := New().Parse("let x = 2; [x, x * x, push([x], 3)]")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	first := New().Run(program)
	second := New().Run(program)
	if first.Inspect() != "[2, 4, [2, 3]]" || first.Inspect() != second.Inspect() {
		t.Errorf("results differ. first=%q, second=%q", first.Inspect(), second.Inspect())
	}
}

func TestWithEnvironment(t *testing.T) {
	env := object.NewEnvironment()
	env.Set("answer", &object.Integer{Value: 42})

	result, err := New(WithEnvironment(env)).Eval("answer + 0")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if result.Inspect() != "42" {
		t.Errorf("result wrong. got=%q", result.Inspect())
	}
}

func TestWithTrace(t *testing.T) {
	var trace bytes.Buffer

	if _, err := New(WithTrace(&trace)).Eval("1 + 2"); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !strings.Contains(trace.String(), "BEGIN parseInfixExpression") {
		t.Errorf("trace output missing infix entry:\n%s", trace.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{
		Level:  log.DebugLevel,
		Writer: &log.IOWriter{Writer: &buf},
	}

	in := New(WithLogger(logger))
	if _, err := in.Eval("let x = 1; x"); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if _, err := in.Eval("let = 1"); err == nil {
		t.Fatalf("expected parse error")
	}

	out := buf.String()
	for _, msg := range []string{"parsed program", "evaluated program", "parse failed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q:\n%s", msg, out)
		}
	}
}

func TestEvalReader(t *testing.T) {
	result, err := New().EvalReader(strings.NewReader("len(\"monkey\")"))
	if err != nil {
		t.Fatalf("EvalReader returned error: %v", err)
	}
	if result.Inspect() != "6" {
		t.Errorf("result wrong. got=%q", result.Inspect())
	}

	_, err = New().EvalReader(iotest.ErrReader(errors.New("boom")))
	if err == nil || err.Error() != "read source: boom" {
		t.Errorf("read error not wrapped. got=%v", err)
	}
}
