package build

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"fusion/generate"
	"fusion/logging"
	"fusion/mods"
	"fusion/syntax"
	"fusion/toolchain"
)

// Compiler is the data structure responsible for maintaining all high-level
// state of the Fusion compiler
type Compiler struct {
	// mod is the module being built.  It is `nil` when a lone file is built.
	mod *mods.FusionModule

	// buildProfile is the profile that is being used to build the project
	buildProfile *mods.BuildProfile

	// parsingTable is the shared parsing table used by all instances of the
	// Fusion LALR(1) parser
	parsingTable *syntax.ParsingTable
}

// NewCompiler creates a new compiler for a given module and build profile.  The
// module may be `nil`.
func NewCompiler(mod *mods.FusionModule, buildProfile *mods.BuildProfile) *Compiler {
	return &Compiler{
		mod:          mod,
		buildProfile: buildProfile,
	}
}

// Transpile converts the Fusion file at path into C source.  Errors are logged
// as they occur and then returned.
func (c *Compiler) Transpile(path string) (string, error) {
	prog, lctx, err := c.lowerFile(path)
	if err != nil {
		return "", err
	}

	logging.LogBeginPhase("Generating")
	src, err := generate.GenerateC(prog)
	if err != nil {
		logging.LogError(lctx, err)
		return "", fmt.Errorf("generating C for %s: %w", path, err)
	}
	logging.LogEndPhase()

	return src, nil
}

// Build runs the full compilation algorithm: the file is transpiled, formatted
// and compiled to the output of the build profile.
func (c *Compiler) Build(ctx context.Context, path string) error {
	src, err := c.Transpile(path)
	if err != nil {
		return err
	}

	if c.buildProfile.Formatter != "" {
		logging.LogBeginPhase("Formatting")

		// an unformatted file still compiles
		if formatted, err := toolchain.Format(ctx, c.buildProfile.Formatter, src); err == nil {
			src = formatted
		} else {
			logging.LogBuildWarning("Format", "skipped formatting: "+err.Error())
		}

		logging.LogEndPhase()
	}

	intermediatePath := c.buildProfile.IntermediatePath
	if err := writeFile(intermediatePath, src); err != nil {
		logging.LogConfigError("Output", fmt.Sprintf("unable to write intermediate file `%s`: %s", intermediatePath, err))
		return err
	}

	logging.LogBeginPhase("Compiling")
	if err := os.MkdirAll(filepath.Dir(c.buildProfile.OutputPath), 0755); err != nil {
		logging.LogConfigError("Output", fmt.Sprintf("unable to create output directory: %s", err))
		return err
	}

	if err := toolchain.Compile(
		ctx,
		c.buildProfile.Compiler,
		c.buildProfile.CFlags,
		intermediatePath,
		c.buildProfile.OutputPath,
	); err != nil {
		logging.LogConfigError("Compile", err.Error())
		return err
	}
	logging.LogEndPhase()

	if c.buildProfile.KeepIntermediate {
		logging.LogInfo("Output", "kept intermediate C file `%s`", intermediatePath)
	} else if err := os.Remove(intermediatePath); err != nil {
		logging.LogBuildWarning("Output", fmt.Sprintf("unable to remove intermediate file `%s`: %s", intermediatePath, err))
	}

	return nil
}

// EmitLLVM converts the Fusion file at path into LLVM IR and writes it to w
func (c *Compiler) EmitLLVM(path string, w io.Writer) error {
	prog, lctx, err := c.lowerFile(path)
	if err != nil {
		return err
	}

	logging.LogBeginPhase("Generating")
	llMod, err := generate.GenerateLLVM(prog)
	if err != nil {
		logging.LogError(lctx, err)
		return fmt.Errorf("generating LLVM for %s: %w", path, err)
	}

	if _, err := llMod.WriteTo(w); err != nil {
		logging.LogConfigError("Output", "unable to write LLVM module: "+err.Error())
		return err
	}
	logging.LogEndPhase()

	return nil
}

// -----------------------------------------------------------------------------

// writeFile writes text to a file creating its directory as necessary
func writeFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return ioutil.WriteFile(path, []byte(text), 0644)
}
