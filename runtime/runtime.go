package runtime

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/resolver"
)

// NewInterpreter constructs an interpreter with the natives installed in
// its global frame.
func NewInterpreter(opts ...lang.Option) *lang.Interpreter {
	in := lang.NewInterpreter(opts...)
	installNatives(in.Globals(), systemClock)
	return in
}

// Run parses, resolves and interprets src. Parse and resolve errors are
// returned before anything executes. In interactive mode the display
// strings of top-level expression statements are returned.
func Run(in *lang.Interpreter, src string, interactive bool) ([]string, error) {
	stmts, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return RunStatements(in, stmts, interactive)
}

// RunStatements resolves and interprets an already parsed program.
func RunStatements(in *lang.Interpreter, stmts []lang.Stmt, interactive bool) ([]string, error) {
	logger := in.Logger()
	logger.Debug("parsed program", slog.Int("statements", len(stmts)))
	if err := resolver.Resolve(stmts, in); err != nil {
		return nil, err
	}
	return in.Interpret(stmts, interactive)
}

// EvaluateString runs a complete program from source text.
func EvaluateString(in *lang.Interpreter, src string) error {
	_, err := Run(in, src, false)
	return err
}

// EvaluateReader consumes all source from the reader and runs it.
func EvaluateReader(in *lang.Interpreter, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return EvaluateString(in, string(data))
}

// EvaluateFile loads and executes a script file, allowing a #! line.
func EvaluateFile(in *lang.Interpreter, path string) error {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return err
	}
	in.Logger().Debug("running script", slog.String("path", path), slog.Int("bytes", len(data)))
	return EvaluateReader(in, bytes.NewReader(data))
}

// ParseFile loads a script file, allowing a #! line, and parses it without
// running anything.
func ParseFile(path string) ([]lang.Stmt, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(string(data))
}

// readFileSkippingShebang blanks a leading #! line but keeps its newline
// so reported line numbers match the file.
func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}
