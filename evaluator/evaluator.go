// Package evaluator は Monkey言語のTree-walking評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Object としての結果を返す。
//
// 内部の評価関数はすべて (object.Object, error) を返す。
// error は次のどちらかで、どちらも途中の評価を打ち切って呼び出し元へ戻る:
//   - *object.Error: 型の不一致や未定義の識別子などの実行時エラー
//   - *object.ReturnValue: return文による巻き戻し。関数呼び出しとプログラムの境界で値に戻す
//
// 再帰の深さに上限はなく、深い再帰はGoのスタックで制限される。
package evaluator

import (
	"fmt"

	"github.com/junhat6/go-monkey/ast"
	"github.com/junhat6/go-monkey/object"
)

// シングルトンオブジェクト。
// true, false, null は常に同じオブジェクトを使い回す。
var (
	NULL  = &object.Null{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Eval はASTノードを評価してオブジェクトを返す、評価器の入口。
// 実行時エラーは *object.Error の値として返る。
// let文だけのプログラムなど、値のない評価結果は nil になる。
func Eval(node ast.Node, env *object.Environment) object.Object {
	obj, err := eval(node, env)
	if err != nil {
		return signalToObject(err)
	}
	return obj
}

// signalToObject は内部の error を外に見せる値に変換する。
func signalToObject(err error) object.Object {
	switch sig := err.(type) {
	case *object.ReturnValue:
		return sig.Value
	case *object.Error:
		return sig
	default:
		return &object.Error{Message: err.Error()}
	}
}

// eval はノードの種類に応じたswitch文で処理を分岐する。
// 全ての評価はこの関数を通じて再帰的に行われる。
func eval(node ast.Node, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {

	// === 文（Statements）===

	case *ast.Program:
		return evalProgram(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return eval(node.Expression, env)

	// ReturnStatement: 戻り値を評価し、ReturnValue として巻き戻す
	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return nil, &object.ReturnValue{Value: NULL}
		}
		val, err := eval(node.ReturnValue, env)
		if err != nil {
			return nil, err
		}
		return nil, &object.ReturnValue{Value: val}

	// LetStatement: 右辺を評価し、現在の環境に変数を束縛する。文自体は値を持たない
	case *ast.LetStatement:
		val, err := eval(node.Value, env)
		if err != nil {
			return nil, err
		}
		env.Set(node.Name.Value, val)
		return nil, nil

	// === 式（Expressions）===

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil

	case *ast.PrefixExpression:
		right, err := eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left, err := eval(node.Left, env)
		if err != nil {
			return nil, err
		}

		right, err := eval(node.Right, env)
		if err != nil {
			return nil, err
		}

		return evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	// FunctionLiteral: 定義時の環境への参照（コピーではない）を捕捉する
	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Env: env, Body: node.Body}, nil

	case *ast.CallExpression:
		function, err := eval(node.Function, env)
		if err != nil {
			return nil, err
		}

		args, err := evalExpressions(node.Arguments, env)
		if err != nil {
			return nil, err
		}

		return applyFunction(function, args)

	case *ast.ArrayLiteral:
		elements, err := evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elements}, nil

	case *ast.IndexExpression:
		left, err := eval(node.Left, env)
		if err != nil {
			return nil, err
		}

		index, err := eval(node.Index, env)
		if err != nil {
			return nil, err
		}

		return evalIndexExpression(left, index)

	case *ast.HashLiteral:
		return evalHashLiteral(node, env)
	}

	// パーサーが作らないノードがここに来るのは実装のバグ
	panic(fmt.Sprintf("evaluator: unexpected node type %T", node))
}

// evalProgram はプログラム全体（文のリスト）を評価する。
// 最後の文の値がプログラムの値になる。
// トップレベルの return はそこで評価を終え、包まれた値を返す。
func evalProgram(program *ast.Program, env *object.Environment) (object.Object, error) {
	var result object.Object

	for _, statement := range program.Statements {
		val, err := eval(statement, env)
		if err != nil {
			if rv, ok := err.(*object.ReturnValue); ok {
				return rv.Value, nil
			}
			return nil, err
		}
		result = val
	}

	return result, nil
}

// evalBlockStatement はブロック内の文を評価する。
// evalProgram と違って return をここでは値に戻さず、そのまま外へ伝える。
// これにより、ネストされたブロックからのreturnが関数の境界まで届く。
// 例: if (true) { if (true) { return 10; } return 1; } → 10
//
// ブロックは式の値として使われるので、値のないブロックは NULL になる。
func evalBlockStatement(
	block *ast.BlockStatement,
	env *object.Environment,
) (object.Object, error) {
	var result object.Object = NULL

	for _, statement := range block.Statements {
		val, err := eval(statement, env)
		if err != nil {
			return nil, err
		}
		if val != nil {
			result = val
		} else {
			result = NULL
		}
	}

	return result, nil
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// =====================
// 前置演算子の評価
// =====================

func evalPrefixExpression(operator string, right object.Object) (object.Object, error) {
	switch operator {
	case "!":
		return evalBangOperatorExpression(right), nil
	case "-":
		return evalMinusPrefixOperatorExpression(right)
	default:
		return nil, newError("unknown operator: %s%s", operator, right.Type())
	}
}

// evalBangOperatorExpression は ! 演算子を評価する。
// !true → false, !false → true, !null → true, それ以外（truthyな値） → false
func evalBangOperatorExpression(right object.Object) object.Object {
	return nativeBoolToBooleanObject(!isTruthy(right))
}

// evalMinusPrefixOperatorExpression は - 前置演算子を評価する。整数にのみ適用可能。
func evalMinusPrefixOperatorExpression(right object.Object) (object.Object, error) {
	integer, ok := right.(*object.Integer)
	if !ok {
		return nil, newError("unknown operator: -%s", right.Type())
	}

	return &object.Integer{Value: -integer.Value}, nil
}

// =====================
// 中置演算子の評価
// =====================

// evalInfixExpression は両辺の型に応じて処理を分岐する。
// 型が違えば type mismatch、同じ型で未対応の演算子なら unknown operator になる。
func evalInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left, right)
	case left.Type() == object.BOOLEAN_OBJ && right.Type() == object.BOOLEAN_OBJ:
		return evalBooleanInfixExpression(operator, left, right)
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)
	case left.Type() != right.Type():
		return nil, newError("type mismatch: %s %s %s",
			left.Type(), operator, right.Type())
	default:
		return nil, newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalIntegerInfixExpression は整数同士の中置演算を評価する。
// 割り算は切り捨て（0方向への丸め）。0 での割り算はエラーにする。
func evalIntegerInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	leftVal := left.(*object.Integer).Value
	rightVal := right.(*object.Integer).Value

	switch operator {
	case "+":
		return &object.Integer{Value: leftVal + rightVal}, nil
	case "-":
		return &object.Integer{Value: leftVal - rightVal}, nil
	case "*":
		return &object.Integer{Value: leftVal * rightVal}, nil
	case "/":
		if rightVal == 0 {
			return nil, newError("division by zero")
		}
		return &object.Integer{Value: leftVal / rightVal}, nil
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal), nil
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal), nil
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal), nil
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal), nil
	default:
		return nil, newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalBooleanInfixExpression は真偽値同士の == と != だけを扱う。
func evalBooleanInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	leftVal := left.(*object.Boolean).Value
	rightVal := right.(*object.Boolean).Value

	switch operator {
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal), nil
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal), nil
	default:
		return nil, newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// evalStringInfixExpression は文字列の連結（+）だけを扱う。
func evalStringInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	if operator != "+" {
		return nil, newError("unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}

	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value
	return &object.String{Value: leftVal + rightVal}, nil
}

// =====================
// if式の評価
// =====================

// evalIfExpression は条件がtruthyならConsequenceを、falsyでAlternativeがあれば
// Alternativeを評価する。どちらにも当てはまらなければNULLを返す。
func evalIfExpression(
	ie *ast.IfExpression,
	env *object.Environment,
) (object.Object, error) {
	condition, err := eval(ie.Condition, env)
	if err != nil {
		return nil, err
	}

	if isTruthy(condition) {
		return eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return eval(ie.Alternative, env)
	}
	return NULL, nil
}

// =====================
// 識別子と変数
// =====================

// evalIdentifier は環境のチェーンから変数を探し、なければ組み込み関数を探す。
// ユーザーの束縛は同名の組み込み関数を隠す。
func evalIdentifier(
	node *ast.Identifier,
	env *object.Environment,
) (object.Object, error) {
	if val, ok := env.Get(node.Value); ok {
		return val, nil
	}

	if builtin, ok := builtins[node.Value]; ok {
		return builtin, nil
	}

	return nil, newError("identifier not found: %s", node.Value)
}

// =====================
// ユーティリティ関数
// =====================

// isTruthy はオブジェクトが「真」とみなされるか判定する。
// null と false だけが偽で、0 や空文字列を含むそれ以外は全て真。
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Null:
		return false
	case *object.Boolean:
		return obj.Value
	default:
		return true
	}
}

func newError(format string, a ...interface{}) *object.Error {
	return object.NewError(format, a...)
}

// =====================
// 関数呼び出し
// =====================

// evalExpressions は式のリスト（関数引数、配列要素）を左から右に評価する。
// 最初のエラーでリスト全体の評価を打ち切る。
func evalExpressions(
	exps []ast.Expression,
	env *object.Environment,
) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))

	for _, e := range exps {
		evaluated, err := eval(e, env)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}

	return result, nil
}

// applyFunction は関数オブジェクトに引数を適用して実行する。
// ユーザー定義関数は本体を新しい環境で評価し、return を値に戻す。
// 組み込み関数はGoの実装を直接呼ぶ。
func applyFunction(fn object.Object, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Function:
		extendedEnv := extendFunctionEnv(fn, args)
		evaluated, err := eval(fn.Body, extendedEnv)
		if err != nil {
			if rv, ok := err.(*object.ReturnValue); ok {
				return rv.Value, nil
			}
			return nil, err
		}
		return evaluated, nil

	case *object.Builtin:
		return fn.Fn(args...)

	default:
		return nil, newError("not a function: %s", fn.Type())
	}
}

// extendFunctionEnv は関数呼び出し用の新しい環境を作成する。
// 外側は呼び出し側ではなく関数の定義時環境。これがクロージャの仕組みの核心部分。
//
// 引数の個数は検査しない。余った引数は捨て、足りない仮引数は束縛しないまま残す
// （本体で参照したときに identifier not found になる）。
func extendFunctionEnv(
	fn *object.Function,
	args []object.Object,
) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for paramIdx, param := range fn.Parameters {
		if paramIdx >= len(args) {
			break
		}
		env.Set(param.Value, args[paramIdx])
	}

	return env
}

// =====================
// 配列とハッシュ
// =====================

// evalIndexExpression は `left[index]` を評価する。
func evalIndexExpression(left, index object.Object) (object.Object, error) {
	switch {
	case left.Type() == object.ARRAY_OBJ && index.Type() == object.INTEGER_OBJ:
		return evalArrayIndexExpression(left, index), nil
	case left.Type() == object.HASH_OBJ:
		return evalHashIndexExpression(left, index)
	default:
		return nil, newError("index operator not supported: %s", left.Type())
	}
}

// evalArrayIndexExpression は範囲外の添字に対してエラーではなく NULL を返す。
func evalArrayIndexExpression(array, index object.Object) object.Object {
	arrayObject := array.(*object.Array)
	idx := index.(*object.Integer).Value
	last := int64(len(arrayObject.Elements) - 1)

	if idx < 0 || idx > last {
		return NULL
	}

	return arrayObject.Elements[idx]
}

// evalHashIndexExpression は存在しないキーに対して NULL を返す。
func evalHashIndexExpression(hash, index object.Object) (object.Object, error) {
	hashObject := hash.(*object.Hash)

	key, ok := index.(object.Hashable)
	if !ok {
		return nil, newError("unusable as hash key: %s", index.Type())
	}

	pair, ok := hashObject.Get(key.HashKey())
	if !ok {
		return NULL, nil
	}

	return pair.Value, nil
}

// evalHashLiteral はペアごとにキー、値の順で評価してハッシュを作る。
// 同じキーが後に現れた場合は後の値で上書きする。
func evalHashLiteral(
	node *ast.HashLiteral,
	env *object.Environment,
) (object.Object, error) {
	hash := object.NewHash()

	for _, p := range node.Pairs {
		key, err := eval(p.Key, env)
		if err != nil {
			return nil, err
		}

		hashKey, ok := key.(object.Hashable)
		if !ok {
			return nil, newError("unusable as hash key: %s", key.Type())
		}

		value, err := eval(p.Value, env)
		if err != nil {
			return nil, err
		}

		hash.Set(hashKey.HashKey(), object.HashPair{Key: key, Value: value})
	}

	return hash, nil
}
