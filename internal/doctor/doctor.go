package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/jaa/vinstall/internal/config"
	"github.com/jaa/vinstall/internal/platform"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

type Check struct {
	Severity Severity `json:"severity"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
}

type Report struct {
	Checks []Check `json:"checks"`
}

func (r Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

func (r Report) ErrorCount() int {
	count := 0
	for _, check := range r.Checks {
		if check.Severity == SeverityError {
			count++
		}
	}
	return count
}

func (r *Report) add(severity Severity, name string, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Severity: severity, Name: name, Message: fmt.Sprintf(format, args...)})
}

// Target is the installation the checks are run against.
type Target struct {
	Platform platform.Platform
	OSName   string
	Device   string
	Bundle   config.ResolvedBundle
}

type Checker struct {
	LookPath      func(string) (string, error)
	Stat          func(string) (os.FileInfo, error)
	CheckWritable func(string) error
	Partitions    func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	Usage         func(ctx context.Context, path string) (*disk.UsageStat, error)
	HostInfo      func(ctx context.Context) (*host.InfoStat, error)
	IsSuperuser   func() bool
}

func NewChecker() *Checker {
	return &Checker{
		LookPath:      exec.LookPath,
		Stat:          os.Stat,
		CheckWritable: platform.CheckWritable,
		Partitions:    disk.PartitionsWithContext,
		Usage:         disk.UsageWithContext,
		HostInfo:      host.InfoWithContext,
		IsSuperuser:   platform.IsSuperuser,
	}
}

func (c *Checker) Check(ctx context.Context, target Target) Report {
	report := Report{Checks: []Check{}}

	if info, err := c.HostInfo(ctx); err != nil {
		report.add(SeverityWarn, "host", "host information unavailable: %v", err)
	} else {
		report.add(SeverityInfo, "host", "%s %s %s (%s)", info.OS, info.Platform, info.PlatformVersion, info.KernelArch)
	}

	if target.Platform == platform.Unknown {
		report.add(SeverityWarn, "platform", "operating system %q is not recognized; generic Unix commands will be used", target.OSName)
	} else {
		report.add(SeverityInfo, "platform", "%s detected as %s", target.OSName, target.Platform)
	}
	if target.Platform == platform.Solaris {
		report.add(SeverityWarn, "platform", "it may be necessary to stop the /usr/sbin/vold daemon before installing")
	}

	if target.Platform.UsesMount() {
		if c.IsSuperuser() {
			report.add(SeverityInfo, "privileges", "running as root")
		} else {
			report.add(SeverityWarn, "privileges", "not running as root; format and mount will probably fail")
		}
	}

	vars := platform.Vars{
		Device:      target.Device,
		BootImage:   target.Bundle.BootSector,
		DOSUtilDir:  target.Bundle.DOSUtilDir,
		UnixUtilDir: target.Bundle.UnixUtilDir,
	}
	for _, req := range platform.Requirements(target.Platform, vars) {
		if req.Bundled {
			if _, err := c.Stat(req.Program); err != nil {
				report.add(SeverityError, "dependency", "%s step needs bundled script %s: %v", req.Step, req.Program, err)
				continue
			}
			report.add(SeverityInfo, "dependency", "%s step uses %s", req.Step, req.Program)
			continue
		}
		location, err := c.LookPath(req.Program)
		if err != nil {
			report.add(SeverityError, "dependency", "%s not found in PATH", req.Program)
			continue
		}
		report.add(SeverityInfo, "dependency", "%s found at %s", req.Program, location)
	}

	for _, file := range []struct {
		label string
		path  string
	}{
		{"archive", target.Bundle.Archive},
		{"boot sector image", target.Bundle.BootSector},
	} {
		info, err := c.Stat(file.path)
		switch {
		case err != nil:
			report.add(SeverityError, "bundle", "%s %s is missing: %v", file.label, file.path, err)
		case info.IsDir():
			report.add(SeverityError, "bundle", "%s %s is a directory", file.label, file.path)
		default:
			report.add(SeverityInfo, "bundle", "%s %s (%d bytes)", file.label, file.path, info.Size())
		}
	}

	c.checkDevice(ctx, target, &report)
	return report
}

func (c *Checker) checkDevice(ctx context.Context, target Target, report *Report) {
	device := strings.TrimSpace(target.Device)
	if device == "" {
		report.add(SeverityError, "device", "no target device configured")
		return
	}

	if !target.Platform.UsesMount() {
		index, err := platform.DriveIndex(device)
		if err != nil {
			report.add(SeverityError, "device", "%s is not a usable drive letter: %v", device, err)
			return
		}
		report.add(SeverityInfo, "device", "%s maps to drive index %d", device, index)
		return
	}

	if _, err := c.Stat(device); err != nil {
		report.add(SeverityError, "device", "the device %s does not exist", device)
		return
	}
	if err := c.CheckWritable(device); err != nil {
		report.add(SeverityError, "device", "no permission to write to the device %s: %v", device, err)
	} else {
		report.add(SeverityInfo, "device", "%s is writable", device)
	}

	partitions, err := c.Partitions(ctx, true)
	if err != nil {
		report.add(SeverityWarn, "device", "could not list mounted filesystems: %v", err)
		return
	}
	for _, partition := range partitions {
		if samePath(partition.Device, device) {
			report.add(SeverityWarn, "device", "%s is currently mounted at %s (%s); it will be reformatted", device, partition.Mountpoint, partition.Fstype)
			return
		}
	}
}

func samePath(lhs, rhs string) bool {
	if lhs == rhs {
		return true
	}
	resolvedLHS, errL := filepath.EvalSymlinks(lhs)
	resolvedRHS, errR := filepath.EvalSymlinks(rhs)
	return errL == nil && errR == nil && resolvedLHS == resolvedRHS
}
