package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"monkey"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantStdout string
		wantStderr string
		wantFailed bool
	}{
		{
			name: "value",
			source: `let fib = fn(n) { if (n < 2) { n } else { fib(n - 1) + fib(n - 2) } };
fib(10);`,
			wantStdout: "55\n",
		},
		{
			name:       "no value",
			source:     "let x = 1;",
			wantStdout: "",
		},
		{
			name:       "runtime error",
			source:     `len(1)`,
			wantStderr: "ERROR: argument to \"len\" not supported, got INTEGER\n",
			wantFailed: true,
		},
		{
			name:       "parse errors",
			source:     "let = 1;",
			wantStderr: "expected next token to be IDENT, got = instead\nno prefix parse function for = found\n",
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "main.mk", tt.source)

			stdout, stderr, err := runApp(t, "", "run", path)
			if tt.wantFailed {
				if !errors.Is(err, errFailed) {
					t.Fatalf("expected errFailed. got=%v", err)
				}
			} else if err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			if stdout != tt.wantStdout {
				t.Errorf("stdout wrong. want=%q, got=%q", tt.wantStdout, stdout)
			}
			if stderr != tt.wantStderr {
				t.Errorf("stderr wrong. want=%q, got=%q", tt.wantStderr, stderr)
			}
		})
	}
}

func TestRunCommandArguments(t *testing.T) {
	_, _, err := runApp(t, "", "run")
	if err == nil || !strings.Contains(err.Error(), "expected exactly one FILE argument") {
		t.Errorf("missing FILE not reported. got=%v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.mk")
	_, _, err = runApp(t, "", "run", missing)
	if err == nil || !strings.HasPrefix(err.Error(), "read "+missing) {
		t.Errorf("read error not wrapped with path. got=%v", err)
	}
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, "prog.mk", `let add = fn(a, b) { a + b * 2 }; add(1, "x")[0]`)

	stdout, _, err := runApp(t, "", "parse", path)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	expected := "let add = fn(a, b) (a + (b * 2));(add(1, \"x\")[0])\n"
	if stdout != expected {
		t.Errorf("stdout wrong.\nwant=%q\ngot=%q", expected, stdout)
	}
}

func TestReplCommand(t *testing.T) {
	for _, args := range [][]string{nil, {"repl"}} {
		stdout, _, err := runApp(t, "let a = 2;\na * 21\n", args...)
		if err != nil {
			t.Fatalf("repl returned error: %v", err)
		}
		if stdout != ">> >> 42\n>> " {
			t.Errorf("stdout wrong for args %v. got=%q", args, stdout)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	cfgPath := writeFile(t, "monkey.yml", "prompt: \"monkey> \"\ncolor: never\n")

	stdout, _, err := runApp(t, "1\n", "--config", cfgPath)
	if err != nil {
		t.Fatalf("repl returned error: %v", err)
	}
	if stdout != "monkey> 1\nmonkey> " {
		t.Errorf("prompt from config not used. got=%q", stdout)
	}

	bad := writeFile(t, "bad.yml", "color: rainbow\n")
	if _, _, err := runApp(t, "", "-c", bad); err == nil {
		t.Errorf("invalid config accepted")
	}
}

func TestLogLevelFlag(t *testing.T) {
	path := writeFile(t, "main.mk", "1 + 1")

	_, stderr, err := runApp(t, "", "--log-level", "debug", "run", path)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(stderr, "evaluated program") {
		t.Errorf("debug log missing from stderr:\n%s", stderr)
	}

	if _, _, err := runApp(t, "", "--log-level", "loud", "run", path); err == nil {
		t.Errorf("unknown log level accepted")
	}
}

func TestTraceFlag(t *testing.T) {
	path := writeFile(t, "main.mk", "-1")

	stdout, stderr, err := runApp(t, "", "--trace", "run", path)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if stdout != "-1\n" {
		t.Errorf("stdout wrong. got=%q", stdout)
	}
	if !strings.Contains(stderr, "BEGIN parsePrefixExpression") {
		t.Errorf("trace missing from stderr:\n%s", stderr)
	}
}
