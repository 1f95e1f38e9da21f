package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

func TestCompileArgs(t *testing.T) {
	args := CompileArgs([]string{"-g", "-Wall"}, "output.c", "bin/app")

	expected := []string{"-g", "-Wall", "output.c", "-o", "bin/app"}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("expected %v, got %v", expected, args)
	}

	if args := CompileArgs(nil, "a.c", "a"); !reflect.DeepEqual(args, []string{"a.c", "-o", "a"}) {
		t.Errorf("unexpected arguments without flags: %v", args)
	}
}

func TestMissingTool(t *testing.T) {
	const missing = "fusion-no-such-tool-on-path"

	_, err := FindTool(missing)

	var te *ToolError
	if !errors.As(err, &te) || te.Tool != missing {
		t.Fatalf("expected a tool error, got %v", err)
	}

	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected error to wrap ErrToolNotFound")
	}

	if err := Compile(context.Background(), missing, nil, "a.c", "a"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected compile with a missing compiler to fail, got %v", err)
	}

	if _, err := Format(context.Background(), missing, "int x;"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected format with a missing formatter to fail, got %v", err)
	}
}

func TestFormatWithoutFormatter(t *testing.T) {
	src := "int main(){ return 0; }\n"

	out, err := Format(context.Background(), "", src)
	if err != nil || out != src {
		t.Errorf("expected source to be unchanged, got %q, %v", out, err)
	}
}

func TestFormatPassesStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat is not available")
	}

	src := "int main(){ return 0; }\n"

	out, err := Format(context.Background(), "cat", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != src {
		t.Errorf("expected %q, got %q", src, out)
	}
}

func TestToolErrorOutput(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false is not available")
	}

	err := Compile(context.Background(), "false", nil, "a.c", "a")

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected a tool error, got %v", err)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("expected the exit error to be wrapped, got %v", te.Err)
	}

	if !strings.HasPrefix(te.Error(), "false: ") {
		t.Errorf("expected error to name the tool, got %q", te.Error())
	}
}
