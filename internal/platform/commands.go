package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Step string

const (
	StepFormat     Step = "format"
	StepMount      Step = "mount"
	StepExtract    Step = "extract"
	StepUnmount    Step = "unmount"
	StepBootSector Step = "boot_sector"
)

var (
	ErrNoSuchDevice = errors.New("no such device")
	ErrStepSkipped  = errors.New("step is not used on this platform")
)

const (
	tokenDevice     = "{device}"
	tokenMountPoint = "{mount_point}"
	tokenBootImage  = "{boot_image}"
	tokenDriveIndex = "{drive_index}"
	tokenDOSUtil    = "{dos_util}"
	tokenUnixUtil   = "{unix_util}"
)

// commandTable holds the argument-vector templates for every installation
// step. A missing step means the platform skips it.
var commandTable = map[Platform]map[Step][]string{
	Linux: {
		StepFormat:     {"mkdosfs", tokenDevice},
		StepMount:      {"mount", "-t", "vfat", tokenDevice, tokenMountPoint},
		StepUnmount:    {"umount", tokenDevice},
		StepBootSector: {tokenUnixUtil + "/copy-boot.sh", tokenBootImage, tokenDevice},
	},
	Solaris: {
		StepFormat:     {"fdformat", "-fU", "-t", "dos", tokenDevice},
		StepMount:      {"mount", "-F", "pcfs", tokenDevice, tokenMountPoint},
		StepUnmount:    {"umount", tokenDevice},
		StepBootSector: {tokenUnixUtil + "/copy-boot.sh", tokenBootImage, tokenDevice},
	},
	Windows: {
		StepFormat:     {tokenDOSUtil + "/format.bat", tokenDevice},
		StepBootSector: {tokenDOSUtil + "/writeboot.bat", tokenBootImage, tokenDriveIndex},
	},
	Unknown: {
		StepFormat:     {"mkdosfs", tokenDevice},
		StepMount:      {"mount", tokenDevice, tokenMountPoint},
		StepUnmount:    {"umount", tokenDevice},
		StepBootSector: {tokenUnixUtil + "/copy-boot.sh", tokenBootImage, tokenDevice},
	},
}

// Vars are the values substituted into command templates.
type Vars struct {
	Device      string
	MountPoint  string
	BootImage   string
	DOSUtilDir  string
	UnixUtilDir string
}

// Command expands the template for step on platform p. It returns
// ErrStepSkipped when the platform has no such step and ErrNoSuchDevice when
// a drive index cannot be derived from the device.
func Command(p Platform, step Step, vars Vars) ([]string, error) {
	templates, ok := commandTable[p]
	if !ok {
		templates = commandTable[Unknown]
	}
	template, ok := templates[step]
	if !ok {
		return nil, fmt.Errorf("%s on %s: %w", step, p, ErrStepSkipped)
	}

	values := map[string]string{
		tokenDevice:     vars.Device,
		tokenMountPoint: vars.MountPoint,
		tokenBootImage:  vars.BootImage,
	}
	dirs := map[string]string{
		tokenDOSUtil:  vars.DOSUtilDir,
		tokenUnixUtil: vars.UnixUtilDir,
	}

	argv := make([]string, 0, len(template))
	for _, arg := range template {
		if arg == tokenDriveIndex {
			index, err := DriveIndex(vars.Device)
			if err != nil {
				return nil, err
			}
			argv = append(argv, strconv.Itoa(index))
			continue
		}
		argv = append(argv, expandArg(arg, values, dirs))
	}
	return argv, nil
}

func expandArg(arg string, values map[string]string, dirs map[string]string) string {
	if value, ok := values[arg]; ok {
		return value
	}
	for token, dir := range dirs {
		if rest, ok := strings.CutPrefix(arg, token+"/"); ok {
			return filepath.Join(dir, rest)
		}
	}
	return arg
}

func FormatCommand(p Platform, vars Vars) []string {
	argv, _ := Command(p, StepFormat, vars)
	return argv
}

// MountCommand returns false when the platform does not mount the device.
func MountCommand(p Platform, vars Vars) ([]string, bool) {
	argv, err := Command(p, StepMount, vars)
	return argv, err == nil
}

// UnmountCommand returns false when the platform does not mount the device.
func UnmountCommand(p Platform, vars Vars) ([]string, bool) {
	argv, err := Command(p, StepUnmount, vars)
	return argv, err == nil
}

func BootSectorCommand(p Platform, vars Vars) ([]string, error) {
	return Command(p, StepBootSector, vars)
}

// DriveIndex maps the first character of a drive string to a BIOS-style drive
// number: 'A' is 0 and only indexes 0 through 9 are accepted.
func DriveIndex(device string) (int, error) {
	first, size := utf8.DecodeRuneInString(device)
	if size == 0 || first == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchDevice, device)
	}
	letter := unicode.ToUpper(first)
	if letter < 'A' || letter > 'Z' {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchDevice, device)
	}
	index := int(letter - 'A')
	if index > 9 {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchDevice, device)
	}
	return index, nil
}

// Requirement is one external program a platform's command table depends on.
type Requirement struct {
	Step    Step
	Program string
	Bundled bool
}

// Requirements lists the programs invoked on platform p, in step order.
// Bundled programs are paths inside the installer bundle; the rest are
// resolved through PATH.
func Requirements(p Platform, vars Vars) []Requirement {
	templates, ok := commandTable[p]
	if !ok {
		templates = commandTable[Unknown]
	}
	order := []Step{StepFormat, StepMount, StepUnmount, StepBootSector}
	requirements := make([]Requirement, 0, len(order))
	for _, step := range order {
		template, ok := templates[step]
		if !ok || len(template) == 0 {
			continue
		}
		bin := template[0]
		bundled := strings.HasPrefix(bin, tokenDOSUtil+"/") || strings.HasPrefix(bin, tokenUnixUtil+"/")
		requirements = append(requirements, Requirement{
			Step:    step,
			Program: expandArg(bin, nil, map[string]string{tokenDOSUtil: vars.DOSUtilDir, tokenUnixUtil: vars.UnixUtilDir}),
			Bundled: bundled,
		})
	}
	return requirements
}
