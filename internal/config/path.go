package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); strings.TrimSpace(xdg) != "" {
		return filepath.Join(xdg, "vinstall", "config.yaml"), nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vinstall", "config.yaml"), nil
}

func ProjectConfigPath(cwd string) string {
	return filepath.Join(cwd, "vinstall.yaml")
}

func ExpandPath(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	expanded, err := homedir.Expand(os.ExpandEnv(strings.TrimSpace(raw)))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", raw, err)
	}
	return filepath.Clean(expanded), nil
}

// ResolvedBundle holds absolute paths to every bundled file.
type ResolvedBundle struct {
	Dir         string
	Archive     string
	BootSector  string
	DOSUtilDir  string
	UnixUtilDir string
}

// ResolveBundle expands the bundle paths. Relative entries are joined with
// the bundle dir, which itself is resolved against cwd.
func ResolveBundle(bundle Bundle, cwd string) (ResolvedBundle, error) {
	dir, err := resolveAgainst(cwd, bundle.Dir)
	if err != nil {
		return ResolvedBundle{}, err
	}
	resolved := ResolvedBundle{Dir: dir}
	for _, field := range []struct {
		raw string
		dst *string
	}{
		{bundle.Archive, &resolved.Archive},
		{bundle.BootSector, &resolved.BootSector},
		{bundle.DOSUtilDir, &resolved.DOSUtilDir},
		{bundle.UnixUtilDir, &resolved.UnixUtilDir},
	} {
		path, err := resolveAgainst(dir, field.raw)
		if err != nil {
			return ResolvedBundle{}, err
		}
		*field.dst = path
	}
	return resolved, nil
}

func resolveAgainst(base, raw string) (string, error) {
	expanded, err := ExpandPath(raw)
	if err != nil {
		return "", err
	}
	if expanded == "" {
		expanded = "."
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Clean(filepath.Join(base, expanded)), nil
}
