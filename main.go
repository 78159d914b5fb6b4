// Command monkey は Monkey言語のインタプリタ。
// 引数なしで起動するとREPLになり、run と parse でファイルを扱う。
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/oarkflow/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/junhat6/go-monkey/config"
	"github.com/junhat6/go-monkey/interp"
	"github.com/junhat6/go-monkey/object"
	"github.com/junhat6/go-monkey/repl"
)

// errFailed は診断をすでに出力した失敗を表す。main は終了コード1で終わるだけにする。
var errFailed = errors.New("monkey: failed")

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// session はグローバルフラグから組み立てた設定とロガーを各コマンドに渡す。
type session struct {
	cfg    *config.Config
	logger *log.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	s := &session{}

	return &cli.App{
		Name:            "monkey",
		Usage:           "Monkey programming language interpreter",
		Reader:          stdin,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"MONKEY_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Write parser trace to stderr",
			},
		},
		Before: s.setup,
		Action: s.replAction,
		Commands: []*cli.Command{
			{
				Name:   "repl",
				Usage:  "Start an interactive session",
				Action: s.replAction,
			},
			{
				Name:      "run",
				Usage:     "Evaluate a source file and print its value",
				ArgsUsage: "FILE",
				Action:    s.runAction,
			},
			{
				Name:      "parse",
				Usage:     "Parse a source file and print the program",
				ArgsUsage: "FILE",
				Action:    s.parseAction,
			},
		},
	}
}

// setup は設定ファイルを読み込み、フラグで上書きしてからロガーを作る。
func (s *session) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("trace") {
		cfg.TraceParser = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = &log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.IOWriter{Writer: c.App.ErrWriter},
	}
	return nil
}

func (s *session) interpreter(c *cli.Context) *interp.Interpreter {
	opts := []interp.Option{interp.WithLogger(s.logger)}
	if s.cfg.TraceParser {
		opts = append(opts, interp.WithTrace(c.App.ErrWriter))
	}
	return interp.New(opts...)
}

// replAction は標準入力が端末なら行編集付きのREPLを、そうでなければ行単位のREPLを動かす。
func (s *session) replAction(c *cli.Context) error {
	r := repl.New(s.cfg, s.logger)

	if f, ok := c.App.Reader.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return r.RunInteractive()
	}
	return r.Run(c.App.Reader, c.App.Writer)
}

func (s *session) runAction(c *cli.Context) error {
	src, err := readSource(c)
	if err != nil {
		return err
	}

	result, err := s.interpreter(c).Eval(src)
	if err != nil {
		var perr *interp.ParseError
		var rerr *object.Error
		switch {
		case errors.As(err, &perr):
			printParseErrors(c.App.ErrWriter, perr)
		case errors.As(err, &rerr):
			fmt.Fprintln(c.App.ErrWriter, rerr.Inspect())
		default:
			return err
		}
		return errFailed
	}

	if result != nil {
		fmt.Fprintln(c.App.Writer, result.Inspect())
	}
	return nil
}

func (s *session) parseAction(c *cli.Context) error {
	src, err := readSource(c)
	if err != nil {
		return err
	}

	program, err := s.interpreter(c).Parse(src)
	if err != nil {
		var perr *interp.ParseError
		if errors.As(err, &perr) {
			printParseErrors(c.App.ErrWriter, perr)
			return errFailed
		}
		return err
	}

	fmt.Fprintln(c.App.Writer, program.String())
	return nil
}

func readSource(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.Errorf("%s: expected exactly one FILE argument, got %d", c.Command.Name, c.NArg())
	}

	path := c.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(src), nil
}

func printParseErrors(w io.Writer, perr *interp.ParseError) {
	for _, msg := range perr.Messages {
		fmt.Fprintln(w, msg)
	}
}
