// Package interp は字句解析・構文解析・評価をひとつにまとめた埋め込み用の窓口。
// REPLやコマンドラインツールはこのパッケージを通してMonkeyのコードを実行する。
//
//	in := interp.New()
//	result, err := in.Eval(`let x = 1; x + 1`)
//
// Interpreter は1つの環境を持ち続けるので、Eval を繰り返しても束縛は残る。
// 同じ Interpreter を複数のゴルーチンから同時に使ってはいけない。
package interp

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/oarkflow/log"
	"github.com/pkg/errors"

	"github.com/junhat6/go-monkey/ast"
	"github.com/junhat6/go-monkey/evaluator"
	"github.com/junhat6/go-monkey/lexer"
	"github.com/junhat6/go-monkey/object"
	"github.com/junhat6/go-monkey/parser"
)

// ParseError は構文解析で見つかったエラーをまとめたもの。
// Messages はパーサーが記録した順に並ぶ。
type ParseError struct {
	Messages []string
}

func (e *ParseError) Error() string {
	if len(e.Messages) == 1 {
		return "parse error: " + e.Messages[0]
	}
	return "parse errors: " + strings.Join(e.Messages, "; ")
}

// Option は Interpreter の設定を変える関数。
type Option func(*Interpreter)

// WithLogger はデバッグログの出力先を設定する。
func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithTrace はパーサーのトレース出力先を設定する。
func WithTrace(w io.Writer) Option {
	return func(in *Interpreter) {
		in.trace = w
	}
}

// WithEnvironment は既存の環境を引き継いで使う。
func WithEnvironment(env *object.Environment) Option {
	return func(in *Interpreter) {
		in.env = env
	}
}

// Interpreter は環境を保持したままソースコードを繰り返し評価する。
type Interpreter struct {
	env    *object.Environment
	logger *log.Logger
	trace  io.Writer
}

// New は新しい Interpreter を作る。
// 環境を渡さなければ空のトップレベル環境から始める。
// ロガーを渡さなければ warn 以上だけを標準エラーに書く。
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger: &log.Logger{
			Level:  log.WarnLevel,
			Writer: &log.IOWriter{Writer: os.Stderr},
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.env == nil {
		in.env = object.NewEnvironment()
	}
	return in
}

// Environment は評価に使っている環境を返す。
func (in *Interpreter) Environment() *object.Environment {
	return in.env
}

// Parse はソースコードを構文解析する。
// パーサーがエラーを1つでも記録した場合は *ParseError を返す。
func (in *Interpreter) Parse(src string) (*ast.Program, error) {
	var opts []parser.Option
	if in.trace != nil {
		opts = append(opts, parser.WithTrace(in.trace))
	}

	p := parser.New(lexer.New(src), opts...)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) != 0 {
		in.logger.Debug().Int("errors", len(errs)).Msg("parse failed")
		return nil, &ParseError{Messages: errs}
	}

	in.logger.Debug().Int("statements", len(program.Statements)).Msg("parsed program")
	return program, nil
}

// Run は構文解析済みのプログラムを保持している環境で評価する。
// 値のないプログラムでは nil を返す。
func (in *Interpreter) Run(program *ast.Program) object.Object {
	start := time.Now()
	result := evaluator.Eval(program, in.env)

	event := in.logger.Debug().Dur("elapsed", time.Since(start))
	if result != nil {
		event = event.Str("type", string(result.Type()))
	}
	event.Msg("evaluated program")

	return result
}

// Eval はソースコードを構文解析して評価する。
// 実行時エラーは *object.Error として値と error の両方で返す。
func (in *Interpreter) Eval(src string) (object.Object, error) {
	program, err := in.Parse(src)
	if err != nil {
		return nil, err
	}

	result := in.Run(program)
	if errObj, ok := result.(*object.Error); ok {
		return errObj, errObj
	}
	return result, nil
}

// EvalReader は r の内容をすべて読み込んで評価する。
func (in *Interpreter) EvalReader(r io.Reader) (object.Object, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		in.logger.Error().Err(err).Msg("failed to read source")
		return nil, errors.Wrap(err, "read source")
	}
	return in.Eval(string(src))
}
