// Package ast は Monkey言語の抽象構文木（AST）を定義するパッケージ。
// パーサーがソースコードをトークン列から変換した結果がこのASTになる。
// ASTの各ノードは Node インターフェースを実装し、
// 文（Statement）と式（Expression）の2種類に大別される。
//
// String() の出力はデバッグ表示だけでなくテストの期待値にも使われる。
// 中置式は常に括弧付き `(a + b)` で出力され、出力を再びパースすると
// 同じ形のASTが得られる。
//
// ASTはパース完了後に変更されない。評価器は読み取るだけなので、
// 同じ Program を何度評価してもよい。
package ast

import (
	"bytes"
	"strings"

	"github.com/junhat6/go-monkey/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// TokenLiteral() はノードを作ったトークンのリテラル値を返す。
// String() はノードを人間が読める文字列に変換する。
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement は「文」を表すノードのインターフェース。
// statementNode() はマーカーメソッドで、式と文を型レベルで区別するために使う。
type Statement interface {
	Node
	statementNode()
}

// Expression は「式」を表すノードのインターフェース。
type Expression interface {
	Node
	expressionNode()
}

// Program はASTのルートノード。
// Monkey言語のプログラムは文（Statement）の列で構成される。
type Program struct {
	Statements []Statement
}

// TokenLiteral は最初の文のトークンリテラルを返す。
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String はプログラム全体を文字列に変換する。
func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// exprString は nil を空文字列として扱う String()。
// パースに失敗した位置には nil の式が入ることがある。
func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// =====================
// 文（Statements）
// =====================

// LetStatement は `let x = <expression>;` という変数束縛の文を表す。
type LetStatement struct {
	Token token.Token // token.LET トークン
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }

// String は `let <name> = <value>;` の形式で文字列を返す。
func (ls *LetStatement) String() string {
	var out bytes.Buffer

	out.WriteString(ls.TokenLiteral() + " ")
	out.WriteString(ls.Name.String())
	out.WriteString(" = ")
	out.WriteString(exprString(ls.Value))
	out.WriteString(";")

	return out.String()
}

// ReturnStatement は `return <expression>;` というreturn文を表す。
// `return;` のように値を省略した場合 ReturnValue は nil になる。
type ReturnStatement struct {
	Token       token.Token // 'return' トークン
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }

// String は `return <value>;` または `return;` を返す。
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return rs.TokenLiteral() + ";"
	}
	return rs.TokenLiteral() + " " + rs.ReturnValue.String() + ";"
}

// ExpressionStatement は式だけからなる文を表す。
type ExpressionStatement struct {
	Token      token.Token // その式の最初のトークン
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string       { return exprString(es.Expression) }

// BlockStatement は `{ ... }` で囲まれたブロック（文の列）を表す。
type BlockStatement struct {
	Token      token.Token // '{' トークン
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }

func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// =====================
// 式（Expressions）
// =====================

// Identifier は変数名などの識別子を表す。
type Identifier struct {
	Token token.Token // token.IDENT トークン
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// Boolean は true/false のブーリアンリテラルを表す。
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// IntegerLiteral は整数リテラル（例: 5, 100）を表す。
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// StringLiteral は文字列リテラル `"..."` を表す。
// String() は引用符付きで返す。文字列中に `"` は現れないので、そのまま再パースできる。
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// PrefixExpression は前置演算子式（例: !true, -5）を表す。
type PrefixExpression struct {
	Token    token.Token // 前置演算子のトークン（例: !）
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }

// String は `(<operator><right>)` の形式で返す（例: "(-5)"）。
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + exprString(pe.Right) + ")"
}

// InfixExpression は中置演算子式（例: 5 + 10, a == b）を表す。
type InfixExpression struct {
	Token    token.Token // 演算子トークン（例: +）
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }

// String は `(<left> <operator> <right>)` の形式で返す（例: "(5 + 10)"）。
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(exprString(ie.Left))
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(exprString(ie.Right))
	out.WriteString(")")

	return out.String()
}

// IfExpression は `if (<condition>) <consequence> else <alternative>` を表す。
// Alternative は省略可能（nil）。
type IfExpression struct {
	Token       token.Token // 'if' トークン
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }

func (ie *IfExpression) String() string {
	var out bytes.Buffer

	out.WriteString("if")
	out.WriteString(exprString(ie.Condition))
	out.WriteString(" ")
	out.WriteString(ie.Consequence.String())

	if ie.Alternative != nil {
		out.WriteString("else ")
		out.WriteString(ie.Alternative.String())
	}

	return out.String()
}

// FunctionLiteral は関数リテラル `fn(<params>) <body>` を表す。
// Monkey言語では関数は第一級オブジェクト（値として扱える）。
type FunctionLiteral struct {
	Token      token.Token // 'fn' トークン
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }

// String は `fn(<params>) <body>` の形式で返す。
func (fl *FunctionLiteral) String() string {
	params := make([]string, 0, len(fl.Parameters))
	for _, p := range fl.Parameters {
		params = append(params, p.String())
	}

	return fl.TokenLiteral() + "(" + strings.Join(params, ", ") + ") " + fl.Body.String()
}

// CallExpression は関数呼び出し `<function>(<args>)` を表す。
// Function は識別子、関数リテラル、あるいは関数を返す任意の式。
type CallExpression struct {
	Token     token.Token // '(' トークン
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }

// String は `<function>(<args>)` の形式で返す。
func (ce *CallExpression) String() string {
	return exprString(ce.Function) + "(" + joinExpressions(ce.Arguments) + ")"
}

// ArrayLiteral は配列リテラル `[<elements>]` を表す。
type ArrayLiteral struct {
	Token    token.Token // '[' トークン
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string       { return "[" + joinExpressions(al.Elements) + "]" }

// IndexExpression は添字アクセス `<left>[<index>]` を表す。
type IndexExpression struct {
	Token token.Token // '[' トークン
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }

// String は `(<left>[<index>])` の形式で返す。
func (ie *IndexExpression) String() string {
	return "(" + exprString(ie.Left) + "[" + exprString(ie.Index) + "])"
}

// HashPair はハッシュリテラルの `キー: 値` の組。
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral はハッシュリテラル `{<key>: <value>, ...}` を表す。
// Pairs はソースに書かれた順に並ぶ。
type HashLiteral struct {
	Token token.Token // '{' トークン
	Pairs []HashPair
}

func (hl *HashLiteral) expressionNode()      {}
func (hl *HashLiteral) TokenLiteral() string { return hl.Token.Literal }

// String は `{<key>:<value>, ...}` の形式で返す。
func (hl *HashLiteral) String() string {
	pairs := make([]string, 0, len(hl.Pairs))
	for _, pair := range hl.Pairs {
		pairs = append(pairs, exprString(pair.Key)+":"+exprString(pair.Value))
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}

func joinExpressions(exps []Expression) string {
	items := make([]string, 0, len(exps))
	for _, e := range exps {
		items = append(items, exprString(e))
	}
	return strings.Join(items, ", ")
}
