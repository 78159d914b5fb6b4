// environment.go は変数の環境（スコープ）を管理する。
// Environment は変数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
// これにより、レキシカルスコープ（静的スコープ）とクロージャが実現される。
//
// 複数のクロージャが同じ外側の環境を共有することがある（木ではなく DAG になる）。
// 環境はポインタで共有し、どこからも参照されなくなればGCが回収する。
// 並行に評価する場合、同じ環境への Set は排他が必要になる。
package object

// NewEnclosedEnvironment は外側の環境を持つ新しい環境を作成する。
// 関数呼び出し時に使用し、呼び出し側ではなく関数の定義時環境を outer として設定する。
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// NewEnvironment は新しい空の環境を作成する。
// プログラムのトップレベル環境として使用する。
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil}
}

// Environment は変数のスコープを表す構造体。
type Environment struct {
	store map[string]Object
	outer *Environment
}

// Get は変数名から値を検索する。
// 現在のスコープになければ外側のスコープを順にたどる。
// 内側の束縛は外側の同名の束縛を隠す。
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set は変数を現在のスコープに設定する。
// 外側のスコープの束縛は書き換えず、常に現在のスコープで新しく束縛（または隠す）する。
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Outer は外側の環境を返す。トップレベルでは nil。
func (e *Environment) Outer() *Environment {
	return e.outer
}
