package toolchain

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

// platformToolDirs returns the `bin` directory of the LLVM installation which
// supplies `clang` and `clang-format` on Windows.
func platformToolDirs() []string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\LLVM\LLVM`, registry.QUERY_VALUE)
	if err != nil {
		return nil
	}
	defer k.Close()

	// the install directory is the default value of the key
	installDir, _, err := k.GetStringValue("")
	if err != nil || installDir == "" {
		return nil
	}

	return []string{filepath.Join(installDir, "bin")}
}
