package common

import (
	"fmt"
	"hash/fnv"
)

// CacheFileName returns a stable name for an artifact derived from the file at
// abspath, eg. `9c1e4f2a.ptable`
func CacheFileName(abspath, ext string) string {
	h := fnv.New32a()
	h.Write([]byte(abspath))
	return fmt.Sprintf("%08x%s", h.Sum32(), ext)
}
