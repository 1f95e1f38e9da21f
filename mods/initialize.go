package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"fusion/common"

	"github.com/pelletier/go-toml"
)

// initProfiles are the profiles written into a new module: the name of the
// profile, the suffix of its executable and its C compiler flags.  The first
// profile is the default.
var initProfiles = []struct {
	name, suffix string
	cflags       []string
}{
	{"debug", "_debug", []string{"-g"}},
	{"release", "", []string{"-O2"}},
}

// InitModule writes the module file of a new module called name in the
// directory at path.  An existing module file is never overwritten.
func InitModule(name, path string) error {
	if !IsValidIdentifier(name) {
		return errors.New("module name must be a valid identifier")
	}

	modFilePath := filepath.Join(path, common.ModuleFileName)
	if _, err := os.Stat(modFilePath); err == nil {
		return errors.New("module file already exists")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("module file error: %w", err)
	}

	mod := &tomlModule{Name: name, Version: common.FusionVersion}
	for i, ip := range initProfiles {
		output := filepath.Join("bin", name+ip.suffix)
		if runtime.GOOS == "windows" {
			output += ".exe"
		}

		mod.BuildProfiles = append(mod.BuildProfiles, &tomlProfile{
			Name:        ip.name,
			DefaultProf: i == 0,
			OutputPath:  output,
			Compiler:    common.DefaultCompiler,
			CFlags:      ip.cflags,
			Formatter:   common.DefaultFormatter,
		})
	}

	f, err := os.Create(modFilePath)
	if err != nil {
		return fmt.Errorf("error creating module file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(&tomlModuleFile{Module: mod}); err != nil {
		return fmt.Errorf("error encoding module file: %w", err)
	}

	return nil
}
