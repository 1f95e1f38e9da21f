package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ToolError is returned when an external tool can't be found or exits with a
// failure.  Output holds everything the tool wrote before failing.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (te *ToolError) Error() string {
	output := strings.TrimSpace(te.Output)
	if output == "" {
		return fmt.Sprintf("%s: %s", te.Tool, te.Err)
	}

	return fmt.Sprintf("%s: %s:\n%s", te.Tool, te.Err, output)
}

func (te *ToolError) Unwrap() error {
	return te.Err
}

// ErrToolNotFound is wrapped by the tool error of a tool that isn't installed
var ErrToolNotFound = errors.New("tool not found")

// command creates the command for a tool.  The tool is resolved with
// `FindTool` before the command is built.
func command(ctx context.Context, tool string, args ...string) (*exec.Cmd, error) {
	toolPath, err := FindTool(tool)
	if err != nil {
		return nil, err
	}

	return exec.CommandContext(ctx, toolPath, args...), nil
}

// run runs a command and returns its standard output.  Standard error is kept
// apart so that diagnostics never end up in the output.
func run(tool string, cmd *exec.Cmd) (string, error) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		// exit error => the tool ran and reported its own errors
		return "", &ToolError{Tool: tool, Output: stderr.String() + stdout.String(), Err: err}
	}

	return stdout.String(), nil
}
