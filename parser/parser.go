// Package parser は Monkey言語のパーサーを実装するパッケージ。
// Pratt Parser（トップダウン演算子順位解析法）を使って、
// トークン列をAST（抽象構文木）に変換する。
//
// Pratt Parserの核心的なアイデア:
// - 各トークンタイプに「前置解析関数」と「中置解析関数」を関連付ける
// - 演算子の優先順位（precedence）に基づいて正しい構文木を構築する
//
// パースは局所的なエラーで中断しない。エラーメッセージを記録して
// 次の文から解析を続け、最後に Errors() でまとめて返す。
package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/junhat6/go-monkey/ast"
	"github.com/junhat6/go-monkey/lexer"
	"github.com/junhat6/go-monkey/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。
// 例: * は + より優先順位が高いので、`1 + 2 * 3` は `1 + (2 * 3)` になる。
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > または <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X または !X
	CALL        // myFunction(X)
	INDEX       // array[index]
)

// precedences はトークンタイプから優先順位への対応表。
var precedences = map[token.TokenType]int{
	token.EQUAL:        EQUALS,
	token.NOT_EQUAL:    EQUALS,
	token.LESS_THAN:    LESSGREATER,
	token.GREATER_THAN: LESSGREATER,
	token.PLUS:         SUM,
	token.MINUS:        SUM,
	token.SLASH:        PRODUCT,
	token.ASTERISK:     PRODUCT,
	token.LPAREN:       CALL,
	token.LBRACKET:     INDEX,
}

type (
	// prefixParseFn は前置解析関数の型。
	// トークンが式の先頭に来た場合に呼ばれる（例: -5, !true, 識別子, 整数リテラル）。
	prefixParseFn func() ast.Expression
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、中置演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Expression) ast.Expression
)

// Parser はMonkey言語のパーサー。
// レキサーからトークンを読み取り、ASTを構築する。
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	// 解析関数の表。New で登録した後は変更しない
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	tracer *tracer
}

// Option はパーサーの設定を変更する関数。
type Option func(*Parser)

// WithTrace は解析関数の入口と出口を w に書き出すようにする。
func WithTrace(w io.Writer) Option {
	return func(p *Parser) {
		if w != nil {
			p.tracer = &tracer{out: w}
		}
	}
}

// New はレキサーからパーサーを生成する。
// 各トークンタイプに対して解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.STRING:   p.parseStringLiteral,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.LPAREN:   p.parseGroupedExpression,
		token.IF:       p.parseIfExpression,
		token.FUNCTION: p.parseFunctionLiteral,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseHashLiteral,
	}

	// '(' は関数呼び出し、'[' は添字アクセスの中置演算子として扱う
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:         p.parseInfixExpression,
		token.MINUS:        p.parseInfixExpression,
		token.SLASH:        p.parseInfixExpression,
		token.ASTERISK:     p.parseInfixExpression,
		token.EQUAL:        p.parseInfixExpression,
		token.NOT_EQUAL:    p.parseInfixExpression,
		token.LESS_THAN:    p.parseInfixExpression,
		token.GREATER_THAN: p.parseInfixExpression,
		token.LPAREN:       p.parseCallExpression,
		token.LBRACKET:     p.parseIndexExpression,
	}

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進めてtrueを返す。
// 期待と違う場合はエラーを追加してfalseを返す。
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors はパース中に蓄積されたエラーメッセージを発生順に返す。
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

// =====================
// プログラムと文のパース
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// EOF に到達するまで文を1つずつパースしてProgramに追加していく。
// 失敗した文は Program に含めない。
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement は現在のトークンに応じて適切な種類の文をパースする。
// 各解析関数は失敗時に型付きの nil を返すので、
// インターフェースに包む前にここで nil に揃える。
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		if stmt := p.parseLetStatement(); stmt != nil {
			return stmt
		}
	case token.RETURN:
		if stmt := p.parseReturnStatement(); stmt != nil {
			return stmt
		}
	default:
		if stmt := p.parseExpressionStatement(); stmt != nil {
			return stmt
		}
	}
	return nil
}

// parseLetStatement は `let <identifier> = <expression>;` をパースする。
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	// セミコロンは省略可能
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseReturnStatement は `return <expression>;` または `return;` をパースする。
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// 値の省略: `return;` `{ return }` や入力末尾の `return`
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseExpressionStatement は式だけからなる文をパースする。
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	defer p.untrace(p.trace("parseExpressionStatement"))

	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseBlockStatement は `{ ... }` 内の文をパースする。
// '}' または EOF に到達するまで文をパースし続ける。
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

// =====================
// 式のパース（Pratt Parser の心臓部）
// =====================

// parseExpression はPratt Parserのメインループ。
//  1. まず現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
//  2. 次のトークンの優先順位が現在の優先順位より高い間、
//     中置解析関数を呼んで左辺に演算子と右辺を結合していく
//
// 例: `1 + 2 * 3` の場合
//   - 前置関数で 1 を取得
//   - + の優先順位(SUM) > 引数の優先順位(LOWEST) なので、中置関数で (1 + ...) を構築
//   - 中置関数内で parseExpression(SUM) を再帰呼び出し
//   - 2 を前置関数で取得し、* の優先順位(PRODUCT) > SUM なので (2 * 3) を構築
//   - 結果: (1 + (2 * 3))
func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// =====================
// 各種式の解析関数
// =====================

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral は整数リテラルを10進数として int64 に変換する。
// 範囲外の値はエラーを記録する。
func (p *Parser) parseIntegerLiteral() ast.Expression {
	defer p.untrace(p.trace("parseIntegerLiteral"))

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		msg := fmt.Sprintf("could not parse %q as integer", p.curToken.Literal)
		p.errors = append(p.errors, msg)
		return nil
	}

	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parsePrefixExpression は前置演算子式（!x, -5 など）をパースする。
func (p *Parser) parsePrefixExpression() ast.Expression {
	defer p.untrace(p.trace("parsePrefixExpression"))

	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseInfixExpression は中置演算子式（5 + 10 など）をパースする。
// 左辺は引数として受け取り、現在のトークン（演算子）の優先順位で右辺をパースする。
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	defer p.untrace(p.trace("parseInfixExpression"))

	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil || left == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parseGroupedExpression は括弧で囲まれた式 `(expression)` をパースする。
// 括弧はグループ化のためだけに使われ、AST上には残らない。
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

// parseIfExpression は `if (<condition>) <consequence> else <alternative>` をパースする。
func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	expression.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if !p.expectPeek(token.LBRACE) {
			return nil
		}

		expression.Alternative = p.parseBlockStatement()
	}

	return expression
}

// parseFunctionLiteral は `fn(<params>) <body>` をパースする。
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	lit.Body = p.parseBlockStatement()

	return lit
}

// parseFunctionParameters は仮引数リスト `(x, y, z)` をパースする。
// 引数リストや配列要素と同じく parseList を使い、各要素が識別子であることを確かめる。
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	ok := p.parseList(token.RPAREN, func() bool {
		if !p.curTokenIs(token.IDENT) {
			msg := fmt.Sprintf("expected parameter to be %s, got %s instead",
				token.IDENT, p.curToken.Type)
			p.errors = append(p.errors, msg)
			return false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		return true
	})

	return identifiers, ok
}

// parseCallExpression は関数呼び出し `<expression>(<args>)` をパースする。
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}

	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok || function == nil {
		return nil
	}
	exp.Arguments = args

	return exp
}

// parseArrayLiteral は配列リテラル `[1, 2, 3]` をパースする。
func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}

	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements

	return array
}

// parseIndexExpression は添字アクセス `<left>[<index>]` をパースする。
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	if exp.Index == nil || left == nil {
		return nil
	}

	return exp
}

// parseHashLiteral は `{<key>: <value>, ...}` をパースする。
// 空の `{}` はペア0個のハッシュになる。
func (p *Parser) parseHashLiteral() ast.Expression {
	hash := &ast.HashLiteral{Token: p.curToken, Pairs: []ast.HashPair{}}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)

		if !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)
		if key == nil || value == nil {
			return nil
		}

		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	return hash
}

// parseExpressionList はカンマ区切りの式のリストを end まで読む。
// 呼び出し引数と配列要素で共通に使う。
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	ok := p.parseList(end, func() bool {
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return false
		}
		list = append(list, exp)
		return true
	})

	return list, ok
}

// parseList はカンマ区切りのリストを読む共通ルーチン。
// 開き括弧の直後が end なら空リストとして即座に終わる。
// 各要素の位置で element を呼び、最後に end を要求する。
func (p *Parser) parseList(end token.TokenType, element func() bool) bool {
	if p.peekTokenIs(end) {
		p.nextToken()
		return true
	}

	p.nextToken()
	ok := element()

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		p.nextToken() // 次の要素へ
		if !element() {
			ok = false
		}
	}

	if !p.expectPeek(end) {
		return false
	}

	return ok
}
