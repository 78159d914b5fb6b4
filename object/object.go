// Package object は Monkey言語のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべてこのパッケージの Object として表現される。
// 全てのオブジェクトは Object インターフェースを実装する。
package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/junhat6/go-monkey/ast"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
// エラーメッセージにそのまま埋め込まれる（例: "type mismatch: INTEGER + BOOLEAN"）。
type ObjectType string

// オブジェクトの種類を表す定数。
const (
	NULL_OBJ  = "NULL"
	ERROR_OBJ = "ERROR"

	INTEGER_OBJ = "INTEGER"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"

	RETURN_VALUE_OBJ = "RETURN_VALUE" // return文の戻り値をラップするオブジェクト

	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"

	ARRAY_OBJ = "ARRAY"
	HASH_OBJ  = "HASH"
)

// Object はMonkey言語の全ての値が実装するインターフェース。
// Type() はオブジェクトの種類を返し、Inspect() は値の文字列表現を返す。
type Object interface {
	Type() ObjectType
	Inspect() string
}

// HashKey はハッシュのキーとして使う、値から導出した識別子。
// 型と値が同じであれば、別々に生成したオブジェクトでも等しくなる。
type HashKey struct {
	Type  ObjectType
	Value uint64
}

// Hashable はハッシュのキーにできるオブジェクト。
// Integer, Boolean, String だけが実装する。
type Hashable interface {
	Object
	HashKey() HashKey
}

// Integer は整数値を表すオブジェクト。
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// HashKey は整数値のビット列をそのままキーにする。
func (i *Integer) HashKey() HashKey {
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

// Boolean は真偽値を表すオブジェクト。
// 評価器ではシングルトン（TRUE, FALSE）として扱う。
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

func (b *Boolean) HashKey() HashKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return HashKey{Type: b.Type(), Value: value}
}

// String は文字列を表すオブジェクト。
// Inspect() は引用符を付けずに中身をそのまま返す。
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// HashKey は文字列の xxhash 64bit ダイジェストをキーにする。
func (s *String) HashKey() HashKey {
	return HashKey{Type: s.Type(), Value: xxhash.Sum64String(s.Value)}
}

// Null はnull値を表すオブジェクト。評価器ではシングルトン（NULL）として扱う。
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ReturnValue はreturn文の戻り値をラップするオブジェクト。
// 評価器の内部でだけ使い、関数呼び出しやプログラムの評価結果としては外に出ない。
// error も実装しており、評価器はエラーと同じ経路でブロックや式の外へ巻き戻す。
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) Error() string    { return "return " + rv.Value.Inspect() }

// Error は評価中のエラーを表すオブジェクト。
// Go の error としても扱えるので、評価器の内部では (Object, error) の
// error として伝播させ、外に返すときにオブジェクトとして見せる。
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
func (e *Error) Error() string    { return e.Message }

// NewError はフォーマット文字列からエラーオブジェクトを生成する。
func NewError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// Function は関数オブジェクト。
// Env は定義時の環境で、呼び出し側の環境ではない。
// Env を保持することでクロージャ（外側のスコープの変数を参照する関数）を実現する。
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// Inspect は `fn(params) {\nbody\n}` の形式で返す。
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn")
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")

	return out.String()
}

// BuiltinFunction は組み込み関数の実装。
// 引数の個数と型は各組み込み関数が自分で検査する。
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin は組み込み関数を値として包むオブジェクト。
// ユーザー定義関数と同じ呼び出し経路で適用される。
type Builtin struct {
	Fn BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function" }

// Array は配列オブジェクト。組み込み関数は要素を書き換えず、新しい配列を返す。
type Array struct {
	Elements []Object
}

func (ao *Array) Type() ObjectType { return ARRAY_OBJ }

// Inspect は `[e1, e2, ...]` の形式で返す。
func (ao *Array) Inspect() string {
	elements := make([]string, 0, len(ao.Elements))
	for _, e := range ao.Elements {
		elements = append(elements, e.Inspect())
	}

	return "[" + strings.Join(elements, ", ") + "]"
}

// HashPair はハッシュに格納する元のキーと値の組。
// Inspect でキーを表示するために、HashKey ではなく元のオブジェクトを残す。
type HashPair struct {
	Key   Object
	Value Object
}

// Hash はハッシュオブジェクト。
// ペアは最初に挿入された順に並び、同じキーを再び Set すると値だけが置き換わる。
type Hash struct {
	pairs *linkedhashmap.Map
}

// NewHash は空のハッシュを生成する。
func NewHash() *Hash {
	return &Hash{pairs: linkedhashmap.New()}
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }

// Set は key にペアを格納する。
func (h *Hash) Set(key HashKey, pair HashPair) {
	h.pairs.Put(key, pair)
}

// Get は key に対応するペアを返す。
func (h *Hash) Get(key HashKey) (HashPair, bool) {
	v, ok := h.pairs.Get(key)
	if !ok {
		return HashPair{}, false
	}
	return v.(HashPair), true
}

// Len はペアの個数を返す。
func (h *Hash) Len() int {
	return h.pairs.Size()
}

// Pairs はペアを挿入順に返す。
func (h *Hash) Pairs() []HashPair {
	pairs := make([]HashPair, 0, h.pairs.Size())
	h.pairs.Each(func(_ interface{}, value interface{}) {
		pairs = append(pairs, value.(HashPair))
	})
	return pairs
}

// Inspect は `{k1:v1, k2:v2, ...}` の形式で返す。
func (h *Hash) Inspect() string {
	pairs := []string{}
	for _, pair := range h.Pairs() {
		pairs = append(pairs, pair.Key.Inspect()+":"+pair.Value.Inspect())
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}
