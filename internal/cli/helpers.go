package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/term"

	"github.com/jaa/vinstall/internal/config"
	"github.com/jaa/vinstall/internal/engine"
	"github.com/jaa/vinstall/internal/platform"
)

func loadConfig(app *AppContext) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ExplicitPath: strings.TrimSpace(app.Opts.ConfigPath),
		WorkingDir:   wd,
	})
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadValidConfig(app *AppContext) (config.Config, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// isTTY reports whether stream is attached to a terminal.
func isTTY(stream any) bool {
	file, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// targetFlags are the per-run overrides accepted by install and plan.
type targetFlags struct {
	Platform string
	Device   string
	MountDir string
	Timeout  time.Duration
}

type installTarget struct {
	Platform       platform.Platform
	OSName         string
	Device         string
	Bundle         config.ResolvedBundle
	MountDir       string
	MetadataPrefix string
	Timeout        time.Duration
}

// resolveTarget applies flags over config and fills the remaining gaps from
// the host: detected platform and the platform's default device.
func resolveTarget(cfg config.Config, flags targetFlags) (installTarget, error) {
	wd, err := os.Getwd()
	if err != nil {
		return installTarget{}, fmt.Errorf("resolve working directory: %w", err)
	}

	detected, osName := platform.Detect()
	target := installTarget{
		Platform:       detected,
		OSName:         osName,
		MetadataPrefix: cfg.Install.MetadataPrefix,
		Timeout:        time.Duration(cfg.Install.CommandTimeoutSeconds) * time.Second,
	}

	rawPlatform := strings.TrimSpace(flags.Platform)
	if rawPlatform == "" {
		rawPlatform = cfg.Install.Platform
	}
	if rawPlatform != "" {
		parsed, err := platform.ParsePlatform(rawPlatform)
		if err != nil {
			return installTarget{}, err
		}
		target.Platform = parsed
	}

	target.Device = strings.TrimSpace(flags.Device)
	if target.Device == "" {
		target.Device = cfg.Install.Device
	}
	if target.Device == "" {
		target.Device = platform.DefaultDevice(target.Platform)
	}

	mountDir := strings.TrimSpace(flags.MountDir)
	if mountDir == "" {
		mountDir = cfg.Install.MountDir
	}
	if target.MountDir, err = config.ExpandPath(mountDir); err != nil {
		return installTarget{}, err
	}

	if flags.Timeout < 0 {
		return installTarget{}, fmt.Errorf("--timeout must not be negative")
	}
	if flags.Timeout > 0 {
		target.Timeout = flags.Timeout
	}

	if target.Bundle, err = config.ResolveBundle(cfg.Bundle, wd); err != nil {
		return installTarget{}, err
	}
	return target, nil
}

func (t installTarget) request(mountPoint *engine.MountPoint, dryRun bool) engine.Request {
	return engine.Request{
		Platform: t.Platform,
		OSName:   t.OSName,
		Device:   t.Device,
		Bundle: engine.Bundle{
			Archive:     t.Bundle.Archive,
			BootSector:  t.Bundle.BootSector,
			DOSUtilDir:  t.Bundle.DOSUtilDir,
			UnixUtilDir: t.Bundle.UnixUtilDir,
		},
		MountPoint:     mountPoint,
		MetadataPrefix: t.MetadataPrefix,
		Timeout:        t.Timeout,
		DryRun:         dryRun,
		Superuser:      platform.IsSuperuser(),
	}
}

// warningList flattens the installer's aggregated warnings.
func warningList(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}
