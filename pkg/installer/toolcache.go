package installer

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ToolCacheArch maps a Go GOARCH to the architecture directory name used by
// the hosted runner tool cache.
func ToolCacheArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// PythonInstalls lists the complete Python installs in a hosted runner tool
// cache (root/Python/<version>/<arch>), lowest version first. Adding them to
// the front of PATH in order leaves the newest first.
func PythonInstalls(root, arch string) []string {
	base := filepath.Join(root, "Python")
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	type install struct {
		ver *semver.Version
		dir string
	}
	var found []install
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ver, err := semver.NewVersion(e.Name())
		if err != nil {
			continue
		}
		dir := filepath.Join(base, e.Name(), arch)
		if _, err := os.Stat(dir + ".complete"); err != nil {
			continue
		}
		found = append(found, install{ver: ver, dir: dir})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ver.LessThan(found[j].ver) })

	dirs := make([]string, 0, len(found))
	for _, in := range found {
		dirs = append(dirs, in.dir)
	}
	return dirs
}
