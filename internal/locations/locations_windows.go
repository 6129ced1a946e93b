//go:build windows

package locations

import (
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/taigrr/appfinder/internal/types"
)

var userFolders = []*windows.KNOWNFOLDERID{
	windows.FOLDERID_Downloads,
	windows.FOLDERID_Desktop,
	windows.FOLDERID_Documents,
	windows.FOLDERID_Pictures,
	windows.FOLDERID_Music,
	windows.FOLDERID_Videos,
}

func knownFolder(id *windows.KNOWNFOLDERID) string {
	path, err := windows.KnownFolderPath(id, windows.KF_FLAG_DEFAULT)
	if err != nil {
		return ""
	}
	return path
}

func platformRoots() []types.Root {
	var roots []types.Root
	add := func(group types.Group, path string) {
		if path != "" {
			roots = append(roots, root(group, path))
		}
	}

	add(types.GroupStartMenu, knownFolder(windows.FOLDERID_Programs))
	add(types.GroupStartMenu, knownFolder(windows.FOLDERID_CommonPrograms))
	if appData := knownFolder(windows.FOLDERID_RoamingAppData); appData != "" {
		add(types.GroupStartMenu, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}

	add(types.GroupDesktop, knownFolder(windows.FOLDERID_Desktop))

	for _, id := range userFolders {
		add(types.GroupKnownFolders, knownFolder(id))
	}

	add(types.GroupPrograms, knownFolder(windows.FOLDERID_ProgramFiles))
	add(types.GroupPrograms, knownFolder(windows.FOLDERID_ProgramFilesX86))

	return roots
}
