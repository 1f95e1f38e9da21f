package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"fusion/build"
	"fusion/common"
	"fusion/generate"
	"fusion/logging"
	"fusion/mods"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `fusion` application and returns its exit code
func Execute() int {
	// panics are bugs in the compiler rather than in the user's code
	defer func() {
		if x := recover(); x != nil {
			logging.LogFatal(fmt.Sprint(x))
		}
	}()

	// the fusion path is optional but must be valid if it is given
	if !initFusionPath() {
		return 1
	}

	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("fusion", "fusion is a tool for compiling Fusion programs to C", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file to an executable", true)
	buildCmd.AddPrimaryArg("input", "the path to the source file to build", true)
	buildCmd.AddStringArg("output", "o", "the path to the output executable", false)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)

	genCmd := cli.AddSubcommand("gen", "generate C or LLVM IR without compiling it", true)
	genCmd.AddPrimaryArg("input", "the path to the source file to generate", true)
	emitArg := genCmd.AddSelectorArg("emit", "e", "the output language", false, []string{"c", "llvm"})
	emitArg.SetDefaultValue("c")
	genCmd.AddStringArg("output", "o", "the path to the output file", false)
	genCmd.AddFlag("dump-ast", "da", "print the AST of the source file before generating")

	modCmd := cli.AddSubcommand("mod", "manage modules", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a module in the working directory", true)
	modInitCmd.AddPrimaryArg("module-name", "the name of the new module", true)

	cli.AddSubcommand("version", "print the Fusion version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 1
	}

	loglevel := result.Arguments["loglevel"].(string)

	// process the inputed command line
	var ok bool
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		ok = execBuildCommand(subResult, loglevel)
	case "gen":
		ok = execGenCommand(subResult, loglevel)
	case "mod":
		ok = execModCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Fusion Version", common.FusionVersion)
		ok = true
	}

	if !ok {
		return 1
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, loglevel string) bool {
	inputPath, ok := inputArg(result)
	if !ok {
		return false
	}

	outputPath := stringArg(result, "output")
	mod, profile, ok := loadProfile(inputPath, stringArg(result, "profile"), outputPath)
	if !ok {
		return false
	}

	buildPath := filepath.Dir(inputPath)
	if mod != nil {
		buildPath = mod.ModuleRoot
	}

	// initialize the logger
	logging.Initialize(buildPath, loglevel)
	logging.LogCompileHeader(profile.OutputPath)

	c := build.NewCompiler(mod, profile)
	err := c.Build(context.Background(), inputPath)

	logging.LogFinished()
	return err == nil
}

// execGenCommand executes the gen subcommand
func execGenCommand(result *olive.ArgParseResult, loglevel string) bool {
	inputPath, ok := inputArg(result)
	if !ok {
		return false
	}

	return runGen(genOptions{
		inputPath:  inputPath,
		outputPath: stringArg(result, "output"),
		emit:       result.Arguments["emit"].(string),
		dumpAST:    result.HasFlag("dump-ast"),
		loglevel:   loglevel,
	})
}

// genOptions are the arguments of the gen subcommand
type genOptions struct {
	inputPath  string
	outputPath string

	// emit is `c` or `llvm`
	emit string

	dumpAST  bool
	loglevel string
}

// genLogLevel returns the log level used by gen.  Progress output would be
// mixed into generated code written to standard output so only errors are
// shown then.
func genLogLevel(outputPath, loglevel string) string {
	if outputPath == "" && loglevel != "silent" {
		return "error"
	}

	return loglevel
}

// runGen generates C or LLVM IR for a source file.  Generated code is written
// to standard output if no output path is given.
func runGen(opts genOptions) bool {
	mod, profile, ok := loadProfile(opts.inputPath, "", opts.outputPath)
	if !ok {
		return false
	}

	logging.Initialize(filepath.Dir(opts.inputPath), genLogLevel(opts.outputPath, opts.loglevel))

	c := build.NewCompiler(mod, profile)

	if opts.dumpAST {
		prog, err := c.Lower(opts.inputPath)
		if err != nil {
			return false
		}

		fmt.Fprint(os.Stderr, generate.DumpAST(prog))
	}

	buff := &bytes.Buffer{}
	var err error
	switch opts.emit {
	case "llvm":
		err = c.EmitLLVM(opts.inputPath, buff)
	default:
		var src string
		if src, err = c.Transpile(opts.inputPath); err == nil {
			buff.WriteString(src)
		}
	}

	if err != nil {
		logging.LogFinished()
		return false
	}

	if err := writeOutput(opts.outputPath, buff); err != nil {
		logging.PrintErrorMessage("Output Error", err)
		return false
	}

	if opts.outputPath != "" {
		logging.LogFinished()
	}

	return true
}

// execModCommand executes the `mod` subcommand and its subcommands.  It handles
// all errors related to this command
func execModCommand(result *olive.ArgParseResult) bool {
	subcmdName, subResult, _ := result.Subcommand()

	workDir, err := os.Getwd()
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return false
	}

	switch subcmdName {
	case "init":
		modNameValue, _ := subResult.PrimaryArg()
		if err := mods.InitModule(modNameValue, workDir); err != nil {
			logging.PrintErrorMessage("Module Init Error", err)
			return false
		}

		logging.PrintInfoMessage("Module Created", filepath.Join(workDir, common.ModuleFileName))
	}

	return true
}

// -----------------------------------------------------------------------------

// inputArg returns the absolute path of the input file of a command
func inputArg(result *olive.ArgParseResult) (string, bool) {
	inputRelPath, _ := result.PrimaryArg()

	inputPath, err := filepath.Abs(inputRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return "", false
	}

	if filepath.Ext(inputPath) != common.SrcFileExtension {
		logging.PrintWarningMessage("Path Warning", fmt.Sprintf("input file does not have the `%s` extension", common.SrcFileExtension))
	}

	return inputPath, true
}

// stringArg returns the value of an optional string argument
func stringArg(result *olive.ArgParseResult, name string) string {
	if argVal, ok := result.Arguments[name]; ok {
		return argVal.(string)
	}

	return ""
}

// loadProfile loads the module enclosing the input file and selects its build
// profile.  A file outside of any module is built with the default profile.
// An explicit output path overrides the output of the profile.
func loadProfile(inputPath, selectedProfile, outputPath string) (*mods.FusionModule, *mods.BuildProfile, bool) {
	moduleRoot, found := mods.FindModuleRoot(filepath.Dir(inputPath))
	if !found {
		if selectedProfile != "" {
			logging.PrintErrorMessage("Module Load Error", errors.New("a profile can only be selected inside of a module"))
			return nil, nil, false
		}

		return nil, mods.DefaultProfile(inputPath, outputPath), true
	}

	mod, profile, err := mods.LoadModule(moduleRoot, selectedProfile)
	if err != nil {
		logging.PrintErrorMessage("Module Load Error", err)
		return nil, nil, false
	}

	if outputPath != "" {
		profile.OutputPath = outputPath
	}

	return mod, profile, true
}

// writeOutput writes generated code to a file or to standard output
func writeOutput(outputPath string, buff *bytes.Buffer) error {
	if outputPath == "" {
		_, err := io.Copy(os.Stdout, buff)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}

	return ioutil.WriteFile(outputPath, buff.Bytes(), 0644)
}

// initFusionPath checks the fusion path if one is set and initializes its
// global value.
func initFusionPath() bool {
	fusionPath, ok := os.LookupEnv("FUSION_PATH")
	if !ok {
		return true
	}

	finfo, err := os.Stat(fusionPath)
	if err != nil {
		logging.PrintErrorMessage("Config Error", fmt.Errorf("error loading fusion_path: %s", err.Error()))
		return false
	}

	if !finfo.IsDir() {
		logging.PrintErrorMessage("Config Error", errors.New("error loading fusion_path: must point to a directory"))
		return false
	}

	common.FusionPath = fusionPath
	return true
}
