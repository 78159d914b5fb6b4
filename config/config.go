// Package config はREPLとコマンドラインツールの設定を読み込む。
// 設定はYAMLファイルに書き、ファイルにない項目は既定値のまま残る。
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Color はエラー表示の色付けの方針。
type Color string

const (
	ColorAuto   Color = "auto"   // 出力が端末のときだけ色を付ける
	ColorAlways Color = "always" // 常に色を付ける
	ColorNever  Color = "never"  // 色を付けない
)

// Config はREPLとコマンドラインツールの設定。
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"` // $HOME からの相対パス。空なら履歴を保存しない
	Color       Color  `yaml:"color"`
	LogLevel    string `yaml:"log_level"`
	TraceParser bool   `yaml:"trace_parser"`
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default は既定の設定を返す。
func Default() *Config {
	return &Config{
		Prompt:      ">> ",
		HistoryFile: ".monkey_history",
		Color:       ColorAuto,
		LogLevel:    "warn",
		TraceParser: false,
	}
}

// Load は path のYAMLファイルを読み込んで、既定値に上書きする。
// path が空なら既定値をそのまま返す。未知のキーはエラーにする。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	if err := cfg.decode(file); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// decode は r のYAMLを cfg に重ねる。空の入力は何も変えない。
func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate は列挙値の項目が既知の値かどうかを検査する。
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("unknown color %q (want auto, always or never)", c.Color)
	}

	if !logLevels[c.LogLevel] {
		return errors.Errorf("unknown log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// HistoryPath は履歴ファイルの絶対パスを返す。
// 履歴が無効なとき、またはホームディレクトリが分からないときは空文字列を返す。
func (c *Config) HistoryPath() string {
	if c.HistoryFile == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, c.HistoryFile)
}
