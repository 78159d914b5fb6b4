// builtins.go は Monkey言語の組み込み関数を定義する。
// これらの関数はユーザーが定義しなくても最初から使える。
// 同じ名前をletで束縛すると、そのスコープでは組み込み関数が隠れる。
//
// 組み込み関数一覧:
// - len: 文字列の文字数または配列の要素数を返す
// - first: 配列の最初の要素を返す
// - last: 配列の最後の要素を返す
// - rest: 配列の最初の要素を除いた新しい配列を返す
// - push: 配列の末尾に要素を追加した新しい配列を返す（元の配列は変更しない）
package evaluator

import (
	"sort"
	"unicode/utf8"

	"github.com/junhat6/go-monkey/object"
)

// builtins は組み込み関数名からBuiltinオブジェクトへのマップ。
// evalIdentifier から参照されるだけで、実行中に書き換えることはない。
var builtins = map[string]*object.Builtin{
	"len":   {Fn: builtinLen},
	"first": {Fn: builtinFirst},
	"last":  {Fn: builtinLast},
	"rest":  {Fn: builtinRest},
	"push":  {Fn: builtinPush},
}

// BuiltinNames は組み込み関数の名前を辞書順で返す。REPLの補完で使う。
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wrongNumberOfArguments(got, want int) *object.Error {
	return newError("wrong number of arguments. got=%d, want=%d", got, want)
}

// arrayArgument は args が配列1つだけであることを確かめて、その配列を返す。
func arrayArgument(name string, args []object.Object) (*object.Array, error) {
	if len(args) != 1 {
		return nil, wrongNumberOfArguments(len(args), 1)
	}

	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to %q must be ARRAY, got %s",
			name, args[0].Type())
	}
	return arr, nil
}

// builtinLen は文字列の文字数（バイト数ではない）か配列の要素数を返す。
func builtinLen(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, wrongNumberOfArguments(len(args), 1)
	}

	switch arg := args[0].(type) {
	case *object.Array:
		return &object.Integer{Value: int64(len(arg.Elements))}, nil
	case *object.String:
		return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}, nil
	default:
		return nil, newError("argument to %q not supported, got %s",
			"len", args[0].Type())
	}
}

// builtinFirst は空配列に対して NULL を返す。
func builtinFirst(args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("first", args)
	if err != nil {
		return nil, err
	}

	if len(arr.Elements) > 0 {
		return arr.Elements[0], nil
	}
	return NULL, nil
}

// builtinLast は空配列に対して NULL を返す。
func builtinLast(args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("last", args)
	if err != nil {
		return nil, err
	}

	length := len(arr.Elements)
	if length > 0 {
		return arr.Elements[length-1], nil
	}
	return NULL, nil
}

// builtinRest は元の配列を変更せず、先頭を除いた新しい配列を返す。
// 空配列の場合はNULLを返す。
func builtinRest(args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("rest", args)
	if err != nil {
		return nil, err
	}

	length := len(arr.Elements)
	if length == 0 {
		return NULL, nil
	}

	newElements := make([]object.Object, length-1)
	copy(newElements, arr.Elements[1:length])
	return &object.Array{Elements: newElements}, nil
}

// builtinPush は元の配列を変更せず、末尾に要素を足した新しい配列を返す。
func builtinPush(args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, wrongNumberOfArguments(len(args), 2)
	}

	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to %q must be ARRAY, got %s",
			"push", args[0].Type())
	}

	length := len(arr.Elements)
	newElements := make([]object.Object, length+1)
	copy(newElements, arr.Elements)
	newElements[length] = args[1]

	return &object.Array{Elements: newElements}, nil
}
