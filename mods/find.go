package mods

import (
	"os"
	"path/filepath"

	"fusion/common"

	"github.com/pelletier/go-toml"
)

// FindModuleRoot searches upward from a directory for the root of the module
// enclosing it.  It returns the module root and whether a module was found.
func FindModuleRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		if isModuleRoot(dir) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}

// isModuleRoot reports whether dir holds a module file naming a module.  Only
// the name is read since a broken module file the user never pointed at
// shouldn't stop the search.
func isModuleRoot(dir string) bool {
	path := filepath.Join(dir, common.ModuleFileName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return false
	}

	tree, err := toml.LoadFile(path)
	if err != nil {
		return false
	}

	name, _ := tree.Get("module.name").(string)
	return name != ""
}
