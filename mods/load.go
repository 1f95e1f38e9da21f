package mods

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"fusion/common"
	"fusion/logging"

	"github.com/pelletier/go-toml"
)

// tomlModuleFile represents the module file as it is encoded in TOML
type tomlModuleFile struct {
	Module *tomlModule `toml:"module"`
}

// tomlModule represents a Fusion module as it is encoded in TOML
type tomlModule struct {
	Name          string         `toml:"name"`
	Version       string         `toml:"fusion-version"`
	Grammar       string         `toml:"grammar,omitempty"`
	BuildProfiles []*tomlProfile `toml:"profiles"`
}

// tomlProfile represents a profile as it encoded in TOML
type tomlProfile struct {
	Name             string   `toml:"name"`
	DefaultProf      bool     `toml:"default"` // in absence of a selected profile, choose this profile
	OutputPath       string   `toml:"output"`
	Compiler         string   `toml:"compiler,omitempty"`
	CFlags           []string `toml:"cflags,omitempty"`
	Formatter        string   `toml:"formatter,omitempty"`
	Intermediate     string   `toml:"intermediate,omitempty"`
	KeepIntermediate bool     `toml:"keep-intermediate"`
}

// LoadModule loads and validates a module as well as determining the correct
// profile.  `path` is the path to the module directory.  `selectedProfile` can
// be empty if these is no profile selected in which case the default profile
// is used.
func LoadModule(path, selectedProfile string) (*FusionModule, *BuildProfile, error) {
	// open file
	f, err := os.Open(filepath.Join(path, common.ModuleFileName))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	// unmarshal the contents
	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}

	tmf := &tomlModuleFile{}
	if err := toml.Unmarshal(buff, tmf); err != nil {
		return nil, nil, err
	}

	if tmf.Module == nil {
		return nil, nil, fmt.Errorf("missing `[module]` table in module file at %s", path)
	}

	fmod := &FusionModule{
		// module root is the directory enclosing the module file
		ModuleRoot: path,
	}

	// ensure that the base module is valid
	if err := validateModule(fmod, tmf.Module); err != nil {
		return nil, nil, err
	}

	profile, err := selectProfile(fmod, tmf.Module, selectedProfile)
	if err != nil {
		return nil, nil, err
	}

	// move all the relevant TOML module attributes over to the Fusion module
	fmod.Name = tmf.Module.Name
	fmod.FusionVersion = tmf.Module.Version
	if tmf.Module.Grammar != "" {
		fmod.GrammarPath = fmod.resolvePath(tmf.Module.Grammar)
	}

	return fmod, profile, nil
}

// validateModule checks that the top level module contents are valid
func validateModule(fmod *FusionModule, mod *tomlModule) error {
	if mod.Name == "" {
		return fmt.Errorf("missing module name for module at %s", fmod.ModuleRoot)
	}

	if !IsValidIdentifier(mod.Name) {
		return errors.New("module name must be a valid identifier")
	}

	if mod.Version != common.FusionVersion {
		logging.LogBuildWarning(
			"module",
			fmt.Sprintf("version of module `%s` (v%s) does not match current fusion version (v%s)", mod.Name, mod.Version, common.FusionVersion),
		)
	}

	return nil
}

// selectProfile selects the named profile or the default profile if no name
// is given and converts it to a build profile
func selectProfile(fmod *FusionModule, mod *tomlModule, selectedProfile string) (*BuildProfile, error) {
	if len(mod.BuildProfiles) == 0 {
		return nil, fmt.Errorf("module `%s` must provide at least one build profile", mod.Name)
	}

	if selectedProfile != "" {
		for _, prof := range mod.BuildProfiles {
			if prof.Name == selectedProfile {
				return fmod.convertProfile(prof)
			}
		}

		return nil, fmt.Errorf("module `%s` has no profile `%s`", mod.Name, selectedProfile)
	}

	var defaultProf *tomlProfile
	for _, prof := range mod.BuildProfiles {
		if prof.DefaultProf {
			if defaultProf != nil {
				return nil, fmt.Errorf("module `%s` specifies multiple default profiles", mod.Name)
			}

			defaultProf = prof
		}
	}

	if defaultProf == nil {
		return nil, fmt.Errorf("module `%s` does not specify a default profile; `--profile` argument is required", mod.Name)
	}

	return fmod.convertProfile(defaultProf)
}

// convertProfile converts a TOML build profile into a `*BuildProfile`.  All
// paths in the profile are relative to the module root.
func (fm *FusionModule) convertProfile(tprof *tomlProfile) (*BuildProfile, error) {
	if tprof.Name == "" {
		return nil, errors.New("profile must specify a name")
	}

	if tprof.OutputPath == "" {
		return nil, fmt.Errorf("profile `%s` must specify an output path", tprof.Name)
	}

	prof := &BuildProfile{
		Name:             tprof.Name,
		OutputPath:       fm.resolvePath(tprof.OutputPath),
		Compiler:         tprof.Compiler,
		CFlags:           tprof.CFlags,
		Formatter:        tprof.Formatter,
		IntermediatePath: tprof.Intermediate,
		KeepIntermediate: tprof.KeepIntermediate,
	}

	if prof.Compiler == "" {
		prof.Compiler = common.DefaultCompiler
	}

	if prof.IntermediatePath == "" {
		prof.IntermediatePath = common.DefaultIntermediate
	}
	prof.IntermediatePath = fm.resolvePath(prof.IntermediatePath)

	return prof, nil
}

// resolvePath converts a path relative to the module root into an absolute path
func (fm *FusionModule) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(fm.ModuleRoot, path)
}

// DefaultProfile returns the profile used to build a lone source file outside
// of any module.  The output path defaults to the name of the input file
// without its extension.  The formatter is left empty since it may not be
// installed.
func DefaultProfile(inputPath, outputPath string) *BuildProfile {
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

		if runtime.GOOS == "windows" {
			outputPath += ".exe"
		}
	}

	return &BuildProfile{
		Name:             "default",
		OutputPath:       outputPath,
		Compiler:         common.DefaultCompiler,
		IntermediatePath: filepath.Join(filepath.Dir(inputPath), common.DefaultIntermediate),
	}
}
