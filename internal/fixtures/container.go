package fixtures

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

const (
	simulatorDevicesDir = "Library/Developer/CoreSimulator/Devices"
	applicationsDataDir = "data/Containers/Data/Application"
	documentsDir        = "Documents"
)

// SimulatorRoot returns the simulated filesystem root of a device.
func SimulatorRoot(home, deviceID string) string {
	return filepath.Join(home, simulatorDevicesDir, deviceID)
}

// ApplicationsRoot returns the directory holding one data container per
// installed app on the device.
func ApplicationsRoot(home, deviceID string) string {
	return filepath.Join(SimulatorRoot(home, deviceID), applicationsDataDir)
}

// FindLatestContainer picks the most recently modified directory directly
// under appsRoot. The candidate is only replaced on a strictly newer
// modification time, so the first entry in listing order wins ties.
//
// This is a heuristic: the simulator does not record which container belongs
// to the app about to launch, and the most recently touched one is usually
// right. Two containers modified at the same moment are ambiguous.
//
// Each entry is stat'ed, so a symlink to a directory counts as a container.
// A missing appsRoot or one without directories yields "" and no error.
func FindLatestContainer(fsys afero.Fs, appsRoot string, log Logger) (string, error) {
	if log == nil {
		log = NopLogger{}
	}

	entries, err := afero.ReadDir(fsys, appsRoot)
	if err != nil {
		if isNotExist(err) {
			log.Debug(EventAppDirectorySearch, "applications directory does not exist", "path", appsRoot)
			return "", nil
		}
		return "", fmt.Errorf("failed to list app containers in %s: %w", appsRoot, err)
	}

	var (
		latestPath    string
		latestModTime time.Time
	)
	for _, entry := range entries {
		path := filepath.Join(appsRoot, entry.Name())
		log.Debug(EventAppDirectorySearch, "checking candidate", "path", path)
		info, err := fsys.Stat(path)
		if err != nil {
			// Dangling symlink, or removed since the listing.
			if isNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestModTime) {
			latestPath = path
			latestModTime = info.ModTime()
		}
	}

	log.Debug(EventAppDirectorySearch, "latest changed directory", "path", latestPath)
	return latestPath, nil
}

// isNotExist reports whether err means the path is not there. ENOTDIR counts:
// a path running through a regular file does not exist either.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
