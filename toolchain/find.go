package toolchain

import (
	"os/exec"
	"path/filepath"
)

// FindTool returns the path to an executable.  The PATH is searched first and
// then any platform specific install locations.
func FindTool(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	for _, dir := range platformToolDirs() {
		if path, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
			return path, nil
		}
	}

	return "", &ToolError{Tool: name, Err: ErrToolNotFound}
}
