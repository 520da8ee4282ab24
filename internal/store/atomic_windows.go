//go:build windows

package store

import "os"

// atomicWriteFile writes to a temp file and renames it over the target.
// Windows rename is not atomic across all filesystems, but this is the
// closest portable approximation.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
