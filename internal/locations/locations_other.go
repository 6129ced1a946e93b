//go:build !windows

package locations

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/taigrr/appfinder/internal/types"
)

func dataHome(home string) string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

func platformRoots() []types.Root {
	home, _ := os.UserHomeDir()

	var roots []types.Root
	add := func(group types.Group, path string) {
		if path != "" {
			roots = append(roots, root(group, path))
		}
	}
	underHome := func(group types.Group, name string) {
		if home != "" {
			add(group, filepath.Join(home, name))
		}
	}

	if data := dataHome(home); data != "" {
		add(types.GroupStartMenu, filepath.Join(data, "applications"))
	}
	add(types.GroupStartMenu, "/usr/local/share/applications")
	add(types.GroupStartMenu, "/usr/share/applications")

	underHome(types.GroupDesktop, "Desktop")

	for _, name := range []string{"Downloads", "Desktop", "Documents", "Pictures", "Music", "Videos"} {
		underHome(types.GroupKnownFolders, name)
	}

	if runtime.GOOS == "darwin" {
		add(types.GroupPrograms, "/Applications")
		underHome(types.GroupPrograms, "Applications")
	}
	add(types.GroupPrograms, "/opt")
	add(types.GroupPrograms, "/usr/local/bin")

	return roots
}
