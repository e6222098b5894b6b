package runtime

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sergev/lox/lang"
)

func TestReadFileSkippingShebang(t *testing.T) {
	dir := t.TempDir()

	withShebang := filepath.Join(dir, "script.lox")
	if err := os.WriteFile(withShebang, []byte("#!/usr/bin/env lox\nprint 1;\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := readFileSkippingShebang(withShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != "\nprint 1;\n" {
		t.Fatalf("expected shebang to be blanked, got %q", data)
	}

	onlyShebang := filepath.Join(dir, "only_shebang.lox")
	if err := os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(onlyShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body for shebang-only script, got %q", data)
	}

	noShebang := filepath.Join(dir, "plain.lox")
	if err := os.WriteFile(noShebang, []byte(`print "hi";`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(noShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != `print "hi";` {
		t.Fatalf("expected content unchanged, got %q", data)
	}

	if _, err := readFileSkippingShebang(filepath.Join(dir, "missing.lox")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestEvaluateFile(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "prog.lox")
	src := `#!/usr/bin/env lox
fun inc(n) {
	return n + 1;
}
print inc(41);
`
	if err := os.WriteFile(script, []byte(src), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var out bytes.Buffer
	in := NewInterpreter(lang.WithOutput(&out))
	if err := EvaluateFile(in, script); err != nil {
		t.Fatalf("EvaluateFile error: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("expected 42 from script, got %q", out.String())
	}
}

func TestEvaluateFileReportsScriptLines(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "bad.lox")
	if err := os.WriteFile(script, []byte("#!/usr/bin/env lox\nvar a = 1;\nprint a / 0;\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	in := NewInterpreter(lang.WithOutput(&bytes.Buffer{}))
	err := EvaluateFile(in, script)
	var rerr *lang.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if rerr.Line() != 3 {
		t.Fatalf("expected error on line 3, got %d", rerr.Line())
	}
}

func TestInstallNativesUsesClock(t *testing.T) {
	env := lang.NewEnv(nil)
	fixed := time.Unix(1000, 500000000)
	installNatives(env, func() time.Time { return fixed })

	val, err := env.Get("clock")
	if err != nil {
		t.Fatalf("Get clock: %v", err)
	}
	if val.Type != lang.TypeCallable {
		t.Fatalf("expected callable, got %v", val.Type)
	}
	fn := val.Callable()
	if fn.Arity() != 0 {
		t.Fatalf("expected arity 0, got %d", fn.Arity())
	}
	got, err := fn.Call(nil, nil)
	if err != nil {
		t.Fatalf("clock(): %v", err)
	}
	if got.Type != lang.TypeNumber || got.Number() != 1000.5 {
		t.Fatalf("expected 1000.5, got %v", got)
	}
	if fn.String() != "<native fn>" {
		t.Fatalf("unexpected display %q", fn.String())
	}
}
