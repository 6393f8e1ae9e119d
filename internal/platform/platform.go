// Package platform classifies the host operating system and owns the
// per-platform external command table used by the installer.
package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

type Platform int

const (
	Unknown Platform = iota
	Linux
	Windows
	Solaris
)

// OSNameEnv overrides the detected operating system name.
const OSNameEnv = "VINSTALL_OS_NAME"

func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	case Solaris:
		return "solaris"
	default:
		return "unknown"
	}
}

// UsesMount reports whether files are copied through a mounted filesystem.
// Windows writes straight to the drive letter instead.
func (p Platform) UsesMount() bool {
	return p != Windows
}

// ParsePlatform parses a platform override from config or flags.
func ParsePlatform(raw string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	case "solaris", "sunos":
		return Solaris, nil
	case "unknown", "unix":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unsupported platform %q (expected: linux, windows, solaris, unknown)", raw)
	}
}

// Classify maps an operating system name to a Platform by prefix.
func Classify(osName string) Platform {
	switch {
	case strings.HasPrefix(osName, "Linux"):
		return Linux
	case strings.HasPrefix(osName, "Windows"):
		return Windows
	case strings.HasPrefix(osName, "SunOS"):
		return Solaris
	default:
		return Unknown
	}
}

// HostOSName returns the operating system name used for classification.
func HostOSName() string {
	if name := strings.TrimSpace(os.Getenv(OSNameEnv)); name != "" {
		return name
	}
	if name := systemName(); name != "" {
		return name
	}
	return runtime.GOOS
}

// Detect classifies the current host.
func Detect() (Platform, string) {
	name := HostOSName()
	return Classify(name), name
}

func DefaultDevice(p Platform) string {
	switch p {
	case Linux:
		return "/dev/fd0"
	case Windows:
		return "A:"
	case Solaris:
		return "/dev/diskette"
	default:
		return "/dev/fd0"
	}
}
