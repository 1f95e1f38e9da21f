package toolchain

import "context"

// CompileArgs returns the arguments passed to the C compiler: the flags, the
// source file and the output.
func CompileArgs(flags []string, cPath, outPath string) []string {
	args := make([]string, 0, len(flags)+3)
	args = append(args, flags...)
	return append(args, cPath, "-o", outPath)
}

// Compile compiles a single C file into an executable at outPath
func Compile(ctx context.Context, compiler string, flags []string, cPath, outPath string) error {
	cmd, err := command(ctx, compiler, CompileArgs(flags, cPath, outPath)...)
	if err != nil {
		return err
	}

	_, err = run(compiler, cmd)
	return err
}
