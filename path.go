package websh

import "path/filepath"

// ResolvePath turns a user-supplied path plus a working directory into a
// normalized absolute path. Pure string algebra: no filesystem access, and
// resolution never fails even for paths that do not exist.
func ResolvePath(path, cwd string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(cwd, path))
}
