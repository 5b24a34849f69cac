package chrome

import (
	"fmt"
	"path"
	"runtime"
)

// Platform describes one Chromium snapshot build.
type Platform struct {
	// Name is the snapshot bucket directory, e.g. Linux_x64.
	Name string
	// Archive is the zip file name inside a revision directory.
	Archive string
	// Executable is the browser path inside the extracted archive.
	Executable string
	// Revision is the pinned snapshot revision for this platform.
	Revision string
}

var (
	linuxX64 = Platform{
		Name:       "Linux_x64",
		Archive:    "chrome-linux.zip",
		Executable: path.Join("chrome-linux", "chrome"),
		Revision:   "1294836",
	}
	macX64 = Platform{
		Name:       "Mac",
		Archive:    "chrome-mac.zip",
		Executable: path.Join("chrome-mac", "Chromium.app", "Contents", "MacOS", "Chromium"),
		Revision:   "1294832",
	}
	macArm = Platform{
		Name:       "Mac_Arm",
		Archive:    "chrome-mac.zip",
		Executable: path.Join("chrome-mac", "Chromium.app", "Contents", "MacOS", "Chromium"),
		Revision:   "1294832",
	}
	winX64 = Platform{
		Name:       "Win_x64",
		Archive:    "chrome-win.zip",
		Executable: path.Join("chrome-win", "chrome.exe"),
		Revision:   "1294832",
	}
)

// PlatformFor returns the snapshot build for goos/goarch.
func PlatformFor(goos, goarch string) (Platform, error) {
	switch {
	case goos == "linux" && goarch == "amd64":
		return linuxX64, nil
	case goos == "darwin" && goarch == "arm64":
		return macArm, nil
	case goos == "darwin":
		return macX64, nil
	case goos == "windows":
		return winX64, nil
	default:
		return Platform{}, fmt.Errorf("no chromium snapshot for %s/%s", goos, goarch)
	}
}

// CurrentPlatform returns the snapshot build for the running system.
func CurrentPlatform() (Platform, error) {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}
