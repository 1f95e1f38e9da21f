//go:build !windows
// +build !windows

package toolchain

// platformToolDirs returns no additional directories: tools are expected to be
// on the PATH.
func platformToolDirs() []string {
	return nil
}
