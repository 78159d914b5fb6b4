// Package repl は Monkey言語のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// ユーザーが入力したコードを字句解析 → 構文解析 → 評価し、結果を表示する。
//
// REPL は1つの環境をセッション全体で使い回すので、前の行の変数束縛が後の行から見える。
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oarkflow/log"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/junhat6/go-monkey/config"
	"github.com/junhat6/go-monkey/evaluator"
	"github.com/junhat6/go-monkey/interp"
	"github.com/junhat6/go-monkey/object"
	"github.com/junhat6/go-monkey/token"
)

// WELCOME は端末で起動したときに最初に表示する挨拶。
const WELCOME = "Welcome to Monkey! Type exit or quit to leave.\n"

// REPL は1つの対話セッション。
type REPL struct {
	cfg    *config.Config
	logger *log.Logger
	interp *interp.Interpreter
}

// New は設定とロガーから新しいセッションを作る。
// trace_parser が有効ならパーサーのトレースを標準エラーに書く。
func New(cfg *config.Config, logger *log.Logger) *REPL {
	opts := []interp.Option{interp.WithLogger(logger)}
	if cfg.TraceParser {
		opts = append(opts, interp.WithTrace(os.Stderr))
	}

	return &REPL{
		cfg:    cfg,
		logger: logger,
		interp: interp.New(opts...),
	}
}

// Environment はセッションの環境を返す。
func (r *REPL) Environment() *object.Environment {
	return r.interp.Environment()
}

// Run は in から1行ずつ読み取り、評価結果を out に書き出す。
// exit か quit の行、または入力の終わりで終了する。
func (r *REPL) Run(in io.Reader, out io.Writer) error {
	color := useColor(r.cfg.Color, out)
	scanner := bufio.NewScanner(in)

	r.logger.Info().Str("mode", "line").Msg("repl session started")
	defer func() {
		r.logger.Info().Str("mode", "line").Msg("repl session finished")
	}()

	for {
		fmt.Fprint(out, r.cfg.Prompt)
		if !scanner.Scan() {
			break
		}

		if !r.evalLine(out, scanner.Text(), color) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "repl: read input")
	}
	return nil
}

// RunInteractive は端末上でセッションを実行する。
// 行編集と履歴は liner に任せ、Ctrl-C は入力中の行を捨て、Ctrl-D で終了する。
func (r *REPL) RunInteractive() error {
	out := os.Stdout
	color := useColor(r.cfg.Color, out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyPath := r.cfg.HistoryPath()
	r.loadHistory(line, historyPath)
	defer r.saveHistory(line, historyPath)

	r.logger.Info().Str("mode", "interactive").Str("history", historyPath).Msg("repl session started")
	defer func() {
		r.logger.Info().Str("mode", "interactive").Msg("repl session finished")
	}()

	io.WriteString(out, WELCOME)

	for {
		input, err := line.Prompt(r.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			io.WriteString(out, "\n")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "repl: read input")
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !r.evalLine(out, input, color) {
			return nil
		}
	}
}

// evalLine は1行を評価して結果を書き出す。セッションを終えるべきなら false を返す。
func (r *REPL) evalLine(out io.Writer, input string, color bool) bool {
	trimmed := strings.TrimSpace(input)
	switch trimmed {
	case "exit", "quit":
		return false
	case "":
		return true
	}

	program, err := r.interp.Parse(input)
	if err != nil {
		var perr *interp.ParseError
		if errors.As(err, &perr) {
			printParserErrors(out, perr.Messages, color)
		}
		return true
	}

	// ASTを評価器に渡して実行結果を得る
	evaluated := r.interp.Run(program)
	if evaluated == nil {
		return true
	}

	text := evaluated.Inspect()
	if _, isErr := evaluated.(*object.Error); isErr && color {
		text = red(text)
	}
	io.WriteString(out, text)
	io.WriteString(out, "\n")
	return true
}

// printParserErrors はパーサーエラーを1件ずつ、空行を挟んで出力する。
func printParserErrors(out io.Writer, messages []string, color bool) {
	for _, msg := range messages {
		if color {
			msg = red(msg)
		}
		io.WriteString(out, msg+"\n\n")
	}
}

func (r *REPL) loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn().Err(err).Str("path", path).Msg("failed to open history")
		}
		return
	}
	defer f.Close()

	if _, err := line.ReadHistory(f); err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("failed to read history")
	}
}

func (r *REPL) saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("failed to create history")
		return
	}
	defer f.Close()

	if _, err := line.WriteHistory(f); err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("failed to write history")
	}
}

// complete は入力中の最後の単語をキーワードと組み込み関数の名前で補完する。
func complete(input string) []string {
	start := strings.LastIndexFunc(input, func(c rune) bool {
		return !(c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z')
	}) + 1
	prefix, word := input[:start], input[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	for _, name := range append(token.Keywords(), evaluator.BuiltinNames()...) {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, prefix+name)
		}
	}
	return candidates
}
