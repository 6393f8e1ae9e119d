package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvBundleDir             = "VINSTALL_BUNDLE_DIR"
	EnvPlatform              = "VINSTALL_PLATFORM"
	EnvDevice                = "VINSTALL_DEVICE"
	EnvMountDir              = "VINSTALL_MOUNT_DIR"
	EnvCommandTimeoutSeconds = "VINSTALL_COMMAND_TIMEOUT_SECONDS"
)

type LoadOptions struct {
	ExplicitPath string
	WorkingDir   string
	Env          map[string]string
}

type fileConfig struct {
	Version *int        `yaml:"version"`
	Bundle  fileBundle  `yaml:"bundle"`
	Install fileInstall `yaml:"install"`
}

type fileBundle struct {
	Dir         *string `yaml:"dir"`
	Archive     *string `yaml:"archive"`
	BootSector  *string `yaml:"boot_sector"`
	DOSUtilDir  *string `yaml:"dos_util_dir"`
	UnixUtilDir *string `yaml:"unix_util_dir"`
}

type fileInstall struct {
	Platform              *string `yaml:"platform"`
	Device                *string `yaml:"device"`
	MountDir              *string `yaml:"mount_dir"`
	MetadataPrefix        *string `yaml:"metadata_prefix"`
	CommandTimeoutSeconds *int    `yaml:"command_timeout_seconds"`
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	cwd := opts.WorkingDir
	if strings.TrimSpace(cwd) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cwd = wd
	}

	env := opts.Env
	if env == nil {
		env = osEnvMap()
	}

	if explicit := strings.TrimSpace(opts.ExplicitPath); explicit != "" {
		if err := mergeFile(&cfg, explicit, true); err != nil {
			return Config{}, err
		}
	} else {
		userPath, err := UserConfigPath()
		if err != nil {
			return Config{}, err
		}
		if err := mergeFile(&cfg, userPath, false); err != nil {
			return Config{}, err
		}

		if err := mergeFile(&cfg, ProjectConfigPath(cwd), false); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, err
	}

	normalize(&cfg)
	return cfg, nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Version != nil {
		cfg.Version = *fc.Version
	}

	setString(&cfg.Bundle.Dir, fc.Bundle.Dir)
	setString(&cfg.Bundle.Archive, fc.Bundle.Archive)
	setString(&cfg.Bundle.BootSector, fc.Bundle.BootSector)
	setString(&cfg.Bundle.DOSUtilDir, fc.Bundle.DOSUtilDir)
	setString(&cfg.Bundle.UnixUtilDir, fc.Bundle.UnixUtilDir)

	setString(&cfg.Install.Platform, fc.Install.Platform)
	setString(&cfg.Install.Device, fc.Install.Device)
	setString(&cfg.Install.MountDir, fc.Install.MountDir)
	setString(&cfg.Install.MetadataPrefix, fc.Install.MetadataPrefix)
	if fc.Install.CommandTimeoutSeconds != nil {
		cfg.Install.CommandTimeoutSeconds = *fc.Install.CommandTimeoutSeconds
	}

	// A bundle dir in a file is relative to that file, not to the caller.
	if fc.Bundle.Dir != nil && cfg.Bundle.Dir != "" {
		if expanded, err := ExpandPath(cfg.Bundle.Dir); err == nil && !filepath.IsAbs(expanded) {
			cfg.Bundle.Dir = filepath.Join(filepath.Dir(path), expanded)
		}
	}

	return nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if value := strings.TrimSpace(env[EnvBundleDir]); value != "" {
		cfg.Bundle.Dir = value
	}
	if value := strings.TrimSpace(env[EnvPlatform]); value != "" {
		cfg.Install.Platform = value
	}
	if value := strings.TrimSpace(env[EnvDevice]); value != "" {
		cfg.Install.Device = value
	}
	if value := strings.TrimSpace(env[EnvMountDir]); value != "" {
		cfg.Install.MountDir = value
	}
	if value := strings.TrimSpace(env[EnvCommandTimeoutSeconds]); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvCommandTimeoutSeconds, value, err)
		}
		cfg.Install.CommandTimeoutSeconds = parsed
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Install.Platform = strings.ToLower(cfg.Install.Platform)
	if cfg.Bundle.Dir == "" {
		cfg.Bundle.Dir = "."
	}
}

func osEnvMap() map[string]string {
	result := map[string]string{}
	for _, pair := range os.Environ() {
		pieces := strings.SplitN(pair, "=", 2)
		if len(pieces) == 2 {
			result[pieces[0]] = pieces[1]
		}
	}
	return result
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return nil
}
