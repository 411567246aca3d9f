package cmd

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardinius/treelox/internal/config"
)

type scriptedLines struct {
	lines  []string
	closed bool
}

func (s *scriptedLines) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (s *scriptedLines) Close() error {
	s.closed = true
	return nil
}

func newTestApp(t *testing.T, options ...AppOption) (*LoxApp, *strings.Builder, *strings.Builder, string) {
	t.Helper()

	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	configPath := filepath.Join(t.TempDir(), "treelox.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("color: never\nprompt: \"lox> \"\n"), 0o600))

	options = append([]AppOption{WithStdout(stdout), WithStderr(stderr)}, options...)
	return NewLoxApp(options...), stdout, stderr, configPath
}

func TestMainInline(t *testing.T) {
	testcases := []struct {
		name   string
		args   []string
		out    string
		errout string
		code   int
	}{
		{name: "print", args: []string{"-e", `print 1 + 2;`}, out: "3\n", code: ExitOK},
		{name: "empty", args: []string{"-e", ``}, code: ExitOK},
		{name: "scope", args: []string{"-e", `var a = 1; { var a = 2; print a; } print a;`}, out: "2\n1\n", code: ExitOK},
		{name: "syntax error", args: []string{"-e", `print ;`}, errout: "[line 1] Error at ';': Expect expression.\n", code: ExitDataErr},
		{name: "scan error", args: []string{"-e", `print 1; #`}, errout: "[line 1] Error: Unexpected character. '#'\n", code: ExitDataErr},
		{name: "scan and parse errors", args: []string{"-e", `print 1 $ 2;`}, errout: "[line 1] Error: Unexpected character. '$'\n[line 1] Error at '2': Expect ';' after value.\n", code: ExitDataErr},
		{name: "runtime error", args: []string{"-e", `print 1; print -"a"; print 2;`}, out: "1\n", errout: "Operand must be a number.\n[line 1]\n", code: ExitSoftware},
		{name: "tokens", args: []string{"-t", "-e", `var a = 1;`}, out: "VAR var null\nIDENTIFIER a null\nEQUAL = null\nNUMBER 1 1\nSEMICOLON ; null\nEOF  null\n", code: ExitOK},
		{name: "tokens with scan error", args: []string{"-t", "-e", `@`}, out: "EOF  null\n", errout: "[line 1] Error: Unexpected character. '@'\n", code: ExitDataErr},
		{name: "ast", args: []string{"-a", "-e", `print -123 * (45.67); var a;`}, out: "(print (* (- 123) (group 45.67)))\n(var a nil)\n", code: ExitOK},
		{name: "ast does not run", args: []string{"-a", "-e", `print undefined;`}, out: "(print undefined)\n", code: ExitOK},
		{name: "rpn", args: []string{"-r", "-e", `(1 + 2) * (4 - 3); print -a; var b;`}, out: "1 2 + 4 3 - *\na ~\n(var b nil)\n", code: ExitOK},
		{name: "last mode wins", args: []string{"-t", "-a", "-e", `1;`}, out: "(; 1)\n", code: ExitOK},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			app, stdout, stderr, configPath := newTestApp(t)

			code := app.Main(append([]string{"treelox", "-c", configPath}, tc.args...))
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.out, stdout.String())
			assert.Equal(t, tc.errout, stderr.String())
		})
	}
}

func TestMainUsage(t *testing.T) {
	testcases := []struct {
		name string
		args []string
		code int
	}{
		{name: "unknown flag", args: []string{"-x"}, code: ExitUsage},
		{name: "missing flag value", args: []string{"-e"}, code: ExitUsage},
		{name: "too many scripts", args: []string{"a.lox", "b.lox"}, code: ExitUsage},
		{name: "inline and script", args: []string{"-e", "1;", "a.lox"}, code: ExitUsage},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			app, stdout, stderr, _ := newTestApp(t)

			code := app.Main(append([]string{"treelox"}, tc.args...))
			assert.Equal(t, tc.code, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "usage: treelox")
		})
	}
}

func TestMainHelp(t *testing.T) {
	app, stdout, stderr, _ := newTestApp(t)

	assert.Equal(t, ExitOK, app.Main([]string{"treelox", "-h"}))
	assert.Contains(t, stdout.String(), "usage: treelox")
	assert.Empty(t, stderr.String())
}

func TestMainFile(t *testing.T) {
	app, stdout, stderr, configPath := newTestApp(t)

	script := filepath.Join(t.TempDir(), "hello.lox")
	require.NoError(t, os.WriteFile(script, []byte("for (var i = 0; i < 3; i = i + 1) print i;\n"), 0o600))

	assert.Equal(t, ExitOK, app.Main([]string{"treelox", "-c", configPath, script}))
	assert.Equal(t, "0\n1\n2\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestMainMissingFile(t *testing.T) {
	app, stdout, stderr, configPath := newTestApp(t)

	code := app.Main([]string{"treelox", "-c", configPath, filepath.Join(t.TempDir(), "missing.lox")})
	assert.Equal(t, ExitIOErr, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no such file or directory")
}

func TestMainBadConfig(t *testing.T) {
	app, _, stderr, _ := newTestApp(t)

	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("color: rainbow\n"), 0o600))

	assert.Equal(t, ExitConfig, app.Main([]string{"treelox", "-c", configPath, "-e", "print 1;"}))
	assert.Contains(t, stderr.String(), "invalid color mode")
}

func TestMainColor(t *testing.T) {
	app, _, stderr, _ := newTestApp(t)

	configPath := filepath.Join(t.TempDir(), "color.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("color: always\n"), 0o600))

	assert.Equal(t, ExitDataErr, app.Main([]string{"treelox", "-c", configPath, "-e", "print ;"}))
	assert.Contains(t, stderr.String(), "\x1b[31m")
	assert.Contains(t, stderr.String(), "Expect expression.")
}

func TestPrompt(t *testing.T) {
	testcases := []struct {
		name   string
		lines  []string
		out    string
		errout string
	}{
		{
			name:  "globals persist",
			lines: []string{`var a = 1;`, `a = a + 1;`, `print a;`},
			out:   "2\n",
		},
		{
			name:   "errors do not end the session",
			lines:  []string{`print ;`, `print "a" + 1;`, `print "still here";`},
			out:    "still here\n",
			errout: "[line 1] Error at ';': Expect expression.\nOperands must be two numbers or two strings.\n[line 1]\n",
		},
		{
			name:  "blank lines and interrupts are skipped",
			lines: []string{``, `   `, `^C`, `print 1;`},
			out:   "1\n",
		},
		{
			name:   "runtime error keeps earlier definitions",
			lines:  []string{`var a = "kept";`, `{ var b = 1; b + nil; }`, `print a;`, `print b;`},
			out:    "kept\n",
			errout: "Operands must be two numbers or two strings.\n[line 1]\nUndefined variable 'b'.\n[line 1]\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			lines := &scriptedLines{lines: tc.lines}
			var promptCfg *config.Config
			app, stdout, stderr, configPath := newTestApp(t, WithLineReader(func(cfg *config.Config) (lineReader, error) {
				promptCfg = cfg
				return lines, nil
			}))

			assert.Equal(t, ExitOK, app.Main([]string{"treelox", "-c", configPath}))
			assert.Equal(t, tc.out, stdout.String())
			assert.Equal(t, tc.errout, stderr.String())
			assert.True(t, lines.closed)
			require.NotNil(t, promptCfg)
			assert.Equal(t, "lox> ", promptCfg.Prompt)
		})
	}
}

func TestPromptFromPipe(t *testing.T) {
	stdin := strings.NewReader("var a = 20;\nprint a + 1;\n")
	app, stdout, _, configPath := newTestApp(t, WithStdin(stdin), WithLineReader(func(*config.Config) (lineReader, error) {
		return &bufioLines{bufio.NewScanner(stdin)}, nil
	}))

	assert.Equal(t, ExitOK, app.Main([]string{"treelox", "-c", configPath}))
	assert.Equal(t, "21\n", stdout.String())
}

type bufioLines struct {
	scanner *bufio.Scanner
}

func (b *bufioLines) Readline() (string, error) {
	if !b.scanner.Scan() {
		if err := b.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return b.scanner.Text(), nil
}

func (b *bufioLines) Close() error {
	return nil
}
