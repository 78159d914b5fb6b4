package evaluator

import (
	"testing"

	"github.com/junhat6/go-monkey/object"
)

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{`len("")`, 0},
		{`len("four")`, 4},
		{`len("hello world")`, 11},
		{`len("日本語")`, 3},
		{`len(1)`, "argument to \"len\" not supported, got INTEGER"},
		{`len("one", "two")`, "wrong number of arguments. got=2, want=1"},
		{`len()`, "wrong number of arguments. got=0, want=1"},
		{`len([1, 2, 3])`, 3},
		{`len([])`, 0},
		{`first([1, 2, 3])`, 1},
		{`first([])`, nil},
		{`first(1)`, "argument to \"first\" must be ARRAY, got INTEGER"},
		{`last([1, 2, 3])`, 3},
		{`last([])`, nil},
		{`last(1)`, "argument to \"last\" must be ARRAY, got INTEGER"},
		{`rest([1, 2, 3])`, []int{2, 3}},
		{`rest([1])`, []int{}},
		{`rest([])`, nil},
		{`rest("abc")`, "argument to \"rest\" must be ARRAY, got STRING"},
		{`push([], 1)`, []int{1}},
		{`push([1, 2], 3)`, []int{1, 2, 3}},
		{`push(1, 1)`, "argument to \"push\" must be ARRAY, got INTEGER"},
		{`push([1])`, "wrong number of arguments. got=1, want=2"},
	}

	for _, tt := range tests {
		evaluated := testEval(tt.input)

		switch expected := tt.expected.(type) {
		case int:
			testIntegerObject(t, evaluated, int64(expected))
		case nil:
			testNullObject(t, evaluated)
		case string:
			errObj, ok := evaluated.(*object.Error)
			if !ok {
				t.Errorf("object is not Error for %q. got=%T (%+v)",
					tt.input, evaluated, evaluated)
				continue
			}
			if errObj.Message != expected {
				t.Errorf("wrong error message for %q. expected=%q, got=%q",
					tt.input, expected, errObj.Message)
			}
		case []int:
			array, ok := evaluated.(*object.Array)
			if !ok {
				t.Errorf("obj not Array for %q. got=%T (%+v)", tt.input, evaluated, evaluated)
				continue
			}

			if len(array.Elements) != len(expected) {
				t.Errorf("wrong num of elements for %q. want=%d, got=%d",
					tt.input, len(expected), len(array.Elements))
				continue
			}

			for i, expectedElem := range expected {
				testIntegerObject(t, array.Elements[i], int64(expectedElem))
			}
		}
	}
}

func TestBuiltinsDoNotMutate(t *testing.T) {
	input := `
let a = [1, 2, 3];
let b = push(a, 4);
let c = rest(a);
[len(a), len(b), len(c), first(a)];`

	evaluated := testEval(input)
	if evaluated.Inspect() != "[3, 4, 2, 1]" {
		t.Errorf("builtins mutated their argument. got=%q", evaluated.Inspect())
	}
}

func TestBuiltinShadowing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`len`, "builtin function"},
		{`let len = fn(x) { 42 }; len("abc")`, "42"},
		{`let f = fn() { let first = 7; first }; f()`, "7"},
		{`let f = fn() { let first = 7; first }; f(); first([9])`, "9"},
	}

	for _, tt := range tests {
		evaluated := testEval(tt.input)
		if evaluated.Inspect() != tt.expected {
			t.Errorf("wrong result for %q. want=%q, got=%q",
				tt.input, tt.expected, evaluated.Inspect())
		}
	}
}

func TestBuiltinInsideUserFunction(t *testing.T) {
	input := `
let reduce = fn(arr, initial, f) {
  let iter = fn(arr, result) {
    if (len(arr) == 0) {
      result
    } else {
      iter(rest(arr), f(result, first(arr)));
    }
  };
  iter(arr, initial);
};
let sum = fn(arr) { reduce(arr, 0, fn(initial, el) { initial + el }) };
sum([1, 2, 3, 4, 5]);`

	testIntegerObject(t, testEval(input), 15)
}

func TestBuiltinNames(t *testing.T) {
	expected := []string{"first", "last", "len", "push", "rest"}

	names := BuiltinNames()
	if len(names) != len(expected) {
		t.Fatalf("wrong number of builtins. want=%d, got=%d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("names[%d] wrong. want=%q, got=%q", i, name, names[i])
		}
	}
}
