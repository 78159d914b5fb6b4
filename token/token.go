// Package token は Monkey言語のトークン（字句）を定義するパッケージ。
// レキサーがソースコードを分割した最小単位がトークンであり、
// パーサーはこのトークン列を入力として構文解析を行う。
//
// 演算子・デリミタのトークン型はその文字自体を値に持つ。
// パーサーのエラーメッセージにはこの値がそのまま埋め込まれる
// （例: "expected next token to be =, got ; instead"）。
package token

import "sort"

// TokenType はトークンの種類を文字列で表す型。
type TokenType string

const (
	ILLEGAL = "ILLEGAL" // 未知の文字
	EOF     = "EOF"     // 入力の終端

	// 識別子 + リテラル
	IDENT  = "IDENT"  // add, foobar, x, y, ...
	INT    = "INT"    // 1343456
	STRING = "STRING" // "foobar"

	// 演算子
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LESS_THAN    = "<"
	GREATER_THAN = ">"

	EQUAL     = "=="
	NOT_EQUAL = "!="

	// デリミタ
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// キーワード
	FUNCTION = "FUNCTION"
	LET      = "LET"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	IF       = "IF"
	ELSE     = "ELSE"
	RETURN   = "RETURN"
)

// Token はトークンの型とリテラル値のペア。
// レキサーが生成した後は変更されない。
type Token struct {
	Type    TokenType
	Literal string
}

// keywords はMonkey言語の予約語マップ。
var keywords = map[string]TokenType{
	"fn":     FUNCTION,
	"let":    LET,
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent は識別子が予約語かどうかを判定する。
// 予約語であればそのトークン型を、そうでなければIDENTを返す。
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords は予約語を辞書順で返す。
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
