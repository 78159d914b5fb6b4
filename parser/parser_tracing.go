// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// WithTrace で出力先を渡したパーサーだけが、各解析関数の入口と出口を書き出す。
// 出力先がなければ trace / untrace は何もしない。
package parser

import (
	"fmt"
	"io"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// tracer はパーサー1つ分のトレース状態。
// level はネストの深さで、深いほどインデントが増える。
type tracer struct {
	out   io.Writer
	level int
}

func (t *tracer) print(fs string) {
	fmt.Fprintf(t.out, "%s%s\n", strings.Repeat(traceIdentPlaceholder, t.level-1), fs)
}

// trace は解析関数の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
// `defer p.untrace(p.trace("parseExpression"))` の形で使う。
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.tracer.level++
	p.tracer.print("BEGIN " + msg)
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracer.print("END " + msg)
	p.tracer.level--
}
