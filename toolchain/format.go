package toolchain

import (
	"context"
	"strings"
)

// Format runs C source through a formatter such as `clang-format`.  The source
// is passed on standard input so no shell is involved.  An empty formatter
// leaves the source unchanged.
func Format(ctx context.Context, formatter, src string) (string, error) {
	if formatter == "" {
		return src, nil
	}

	cmd, err := command(ctx, formatter)
	if err != nil {
		return "", err
	}

	cmd.Stdin = strings.NewReader(src)
	return run(formatter, cmd)
}
