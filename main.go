package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/printer"
	"github.com/sergev/lox/resolver"
	"github.com/sergev/lox/runtime"
)

// Exit codes follow the sysexits convention.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

type options struct {
	configPath string
	logLevel   string
	printAST   bool
	postfix    bool
	args       []string
}

// session is what a single run of the driver needs: the interpreter plus
// where to send results, diagnostics and tree dumps.
type session struct {
	in       *lang.Interpreter
	cfg      runtime.Config
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	printAST bool
	postfix  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitUsage
	}
	if len(opts.args) > 1 {
		fmt.Fprintln(stderr, "Usage: lox [flags] [script]")
		return exitUsage
	}

	cfgPath, optional := opts.configPath, false
	if cfgPath == "" {
		cfgPath, optional = runtime.DefaultConfigPath(), true
	}
	cfg, err := runtime.LoadConfig(cfgPath, optional)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitUsage
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	level, err := runtime.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitUsage
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	s := &session{
		in:       runtime.NewInterpreter(lang.WithOutput(stdout), lang.WithLogger(logger)),
		cfg:      cfg,
		out:      stdout,
		errOut:   stderr,
		logger:   logger,
		printAST: opts.printAST || cfg.PrintAST,
		postfix:  opts.postfix,
	}

	if len(opts.args) == 1 {
		return s.runScript(opts.args[0], stdin)
	}
	if f, ok := stdin.(*os.File); ok && isInteractive(f) {
		s.runInteractiveREPL()
		return exitOK
	}
	s.runBufferedREPL(stdin)
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := pflag.NewFlagSet("lox", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default ~/.loxrc.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.printAST, "print-ast", false, "print the parsed program before running it")
	flags.BoolVar(&opts.postfix, "postfix", false, "print top-level expressions in postfix form")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lox [flags] [script]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	opts.args = flags.Args()
	return opts, nil
}

// runScript executes a whole file, or standard input when path is "-".
func (s *session) runScript(path string, stdin io.Reader) int {
	var (
		stmts []lang.Stmt
		err   error
	)
	if path == "-" {
		stmts, err = parser.ParseReader(stdin)
	} else {
		stmts, err = runtime.ParseFile(path)
	}
	if err != nil {
		s.report(err)
		return exitCode(err)
	}
	s.dump(stmts)
	if _, err := runtime.RunStatements(s.in, stmts, false); err != nil {
		s.report(err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode classifies err: static errors are bad input data, runtime
// errors are program failures, anything else is I/O.
func exitCode(err error) int {
	var (
		perr *parser.Error
		serr *resolver.Error
		rerr *lang.RuntimeError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &perr), errors.As(err, &serr):
		return exitDataErr
	case errors.As(err, &rerr):
		return exitSoftware
	default:
		return exitIOErr
	}
}

func (s *session) report(err error) {
	var (
		perr *parser.Error
		serr *resolver.Error
		rerr *lang.RuntimeError
	)
	switch {
	case errors.As(err, &perr):
		fmt.Fprintf(s.errOut, "parse error: %v\n", err)
	case errors.As(err, &serr):
		fmt.Fprintf(s.errOut, "static error: %v\n", err)
	case errors.As(err, &rerr):
		fmt.Fprintf(s.errOut, "runtime error: %v\n", err)
	default:
		fmt.Fprintf(s.errOut, "error: %v\n", err)
	}
}

func (s *session) dump(stmts []lang.Stmt) {
	if s.printAST && len(stmts) > 0 {
		fmt.Fprintln(s.errOut, printer.Program(stmts))
	}
	if !s.postfix {
		return
	}
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *lang.ExpressionStmt:
			fmt.Fprintln(s.errOut, printer.Postfix(st.Expression))
		case *lang.PrintStmt:
			fmt.Fprintln(s.errOut, printer.Postfix(st.Expression))
		}
	}
}

// evalChunk runs one complete REPL entry and prints what it echoes.
func (s *session) evalChunk(stmts []lang.Stmt) {
	s.dump(stmts)
	echoed, err := runtime.RunStatements(s.in, stmts, true)
	for _, line := range echoed {
		fmt.Fprintln(s.out, line)
	}
	if err != nil {
		s.report(err)
	}
}

func (s *session) runBufferedREPL(r io.Reader) {
	reader := bufio.NewReader(r)
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(s.errOut, "read error: %v\n", err)
			return
		}
		atEOF := errors.Is(err, io.EOF)
		if atEOF && buffer.Len() == 0 && strings.TrimSpace(line) == "" {
			return
		}
		buffer.WriteString(line)

		stmts, parseErr := parser.Parse(buffer.String())
		if parseErr != nil {
			if parser.IsIncomplete(parseErr) && !atEOF {
				continue
			}
			s.report(parseErr)
			buffer.Reset()
			if atEOF {
				return
			}
			continue
		}
		buffer.Reset()
		s.evalChunk(stmts)
		if atEOF {
			return
		}
	}
}

func (s *session) runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if path := s.cfg.HistoryFile; path != "" {
		loadHistory(state, path, s.logger)
		defer saveHistory(state, path, s.logger)
	}

	var buffer strings.Builder

	for {
		prompt := s.cfg.Prompt
		if buffer.Len() > 0 {
			prompt = s.cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(s.out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out)
				return
			default:
				fmt.Fprintf(s.errOut, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		stmts, parseErr := parser.Parse(src)
		if parseErr != nil {
			if parser.IsIncomplete(parseErr) {
				continue
			}
			s.report(parseErr)
			buffer.Reset()
			continue
		}

		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		s.evalChunk(stmts)
	}
}

// historyStore is the part of *liner.State that persists history.
type historyStore interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory reads saved history. A missing file is normal on first use.
func loadHistory(h historyStore, path string, logger *slog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("open history", slog.String("path", path), slog.Any("error", err))
		}
		return
	}
	defer f.Close()
	if _, err := h.ReadHistory(f); err != nil {
		logger.Warn("read history", slog.String("path", path), slog.Any("error", err))
	}
}

func saveHistory(h historyStore, path string, logger *slog.Logger) {
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("create history", slog.String("path", path), slog.Any("error", err))
		return
	}
	if _, err := h.WriteHistory(f); err != nil {
		logger.Warn("write history", slog.String("path", path), slog.Any("error", err))
	}
	if err := f.Close(); err != nil {
		logger.Warn("close history", slog.String("path", path), slog.Any("error", err))
	}
}

func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
