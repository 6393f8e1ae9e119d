package config

import (
	"fmt"
	"strings"

	"github.com/jaa/vinstall/internal/platform"
)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid config"
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(e.Problems, "; "))
}

func Validate(cfg Config) error {
	problems := []string{}

	if cfg.Version != 1 {
		problems = append(problems, "version must be 1")
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"bundle.dir", cfg.Bundle.Dir},
		{"bundle.archive", cfg.Bundle.Archive},
		{"bundle.boot_sector", cfg.Bundle.BootSector},
		{"bundle.dos_util_dir", cfg.Bundle.DOSUtilDir},
		{"bundle.unix_util_dir", cfg.Bundle.UnixUtilDir},
	} {
		if strings.TrimSpace(field.value) == "" {
			problems = append(problems, fmt.Sprintf("%s must be set", field.name))
			continue
		}
		if _, err := ExpandPath(field.value); err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a valid path", field.name))
		}
	}

	if cfg.Install.Platform != "" {
		if _, err := platform.ParsePlatform(cfg.Install.Platform); err != nil {
			problems = append(problems, fmt.Sprintf("install.platform: %v", err))
		}
	}
	if cfg.Install.MountDir != "" {
		if _, err := ExpandPath(cfg.Install.MountDir); err != nil {
			problems = append(problems, "install.mount_dir must be a valid path")
		}
	}
	if strings.TrimSpace(cfg.Install.MetadataPrefix) == "" {
		problems = append(problems, "install.metadata_prefix must be set")
	}
	if cfg.Install.CommandTimeoutSeconds < 0 {
		problems = append(problems, "install.command_timeout_seconds must be >= 0")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
