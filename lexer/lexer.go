// Package lexer は Monkey言語の字句解析器（レキサー）を実装するパッケージ。
// ソースコード文字列を先頭から読み進め、NextToken を呼ぶたびに
// トークンを1つずつ返す。入力の終端では EOF トークンを返し続ける。
package lexer

import "github.com/junhat6/go-monkey/token"

// Lexer はソースコードを読み進める状態を持つ。
// 文字単位（rune）で処理するため、ILLEGAL トークンは
// マルチバイト文字でも1文字分をまるごと持つ。
type Lexer struct {
	input        []rune
	position     int  // 現在の文字の位置（ch の位置）
	readPosition int  // 次に読む位置（ch の次）
	ch           rune // 現在見ている文字。終端では 0
}

// New は入力文字列からレキサーを生成し、最初の1文字を読み込む。
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// NextToken は空白を読み飛ばしてから次のトークンを返す。
// `==` と `!=` は1文字先読みして2文字のトークンにまとめる。
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQUAL, Literal: "=="}
		} else {
			tok = newToken(token.ASSIGN, l.ch)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQUAL, Literal: "!="}
		} else {
			tok = newToken(token.BANG, l.ch)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '<':
		tok = newToken(token.LESS_THAN, l.ch)
	case '>':
		tok = newToken(token.GREATER_THAN, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case ':':
		tok = newToken(token.COLON, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '[':
		tok = newToken(token.LBRACKET, l.ch)
	case ']':
		tok = newToken(token.RBRACKET, l.ch)
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readString()
	case 0:
		if l.position >= len(l.input) {
			tok = token.Token{Type: token.EOF, Literal: ""}
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	default:
		// 識別子と整数は readIdentifier / readNumber が
		// 次の文字まで進めるので、ここで return する
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.INT
			tok.Literal = l.readNumber()
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch)
	}

	l.readChar()
	return tok
}

// readChar は次の1文字を読み込み、位置を進める。
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar は位置を進めずに次の文字を返す。
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier は英字とアンダースコアの連続を読み取る。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readNumber は数字の連続を読み取る。
// 符号は前置演算子としてパーサーが扱うので、ここでは読まない。
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readString は `"` の次から次の `"` までを読み取る。
// エスケープシーケンスは解釈しない。閉じる `"` がなければ入力の終端まで読む。
func (l *Lexer) readString() string {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' || l.position >= len(l.input) {
			break
		}
	}
	return string(l.input[position:l.position])
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
