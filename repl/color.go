package repl

import (
	"io"

	"github.com/mattn/go-isatty"

	"github.com/junhat6/go-monkey/config"
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// useColor は出力先にANSIカラーを使うかどうかを決める。
// auto のときは out が端末のファイルである場合だけ色を付ける。
func useColor(mode config.Color, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
