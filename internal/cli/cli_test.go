package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/jaa/vinstall/internal/exitcode"
)

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	app := &AppContext{IO: IOStreams{In: strings.NewReader(""), Out: &stdout, ErrOut: &stderr}}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), mapExitCode(err)
}

// writeBundle lays out a minimal installer bundle and a config pointing at it.
func writeBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files"), 0o755))

	file, err := os.Create(filepath.Join(dir, "files", "visopsys.zip"))
	require.NoError(t, err)
	writer := zip.NewWriter(file)
	for _, name := range []string{"system/", "system/kernel", "META-INF/MANIFEST.MF"} {
		w, err := writer.Create(name)
		require.NoError(t, err)
		if !strings.HasSuffix(name, "/") {
			_, err = io.WriteString(w, "data")
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "files", "bootsect.f12"), make([]byte, 512), 0o644))

	configPath := filepath.Join(dir, "vinstall.yaml")
	config := "version: 1\nbundle:\n  dir: " + yamlQuote(dir) + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))
	return configPath
}

func yamlQuote(value string) string {
	encoded, _ := json.Marshal(value)
	return string(encoded)
}

func TestPlanJSONListsLinuxCommands(t *testing.T) {
	configPath := writeBundle(t)
	bundleDir := filepath.Dir(configPath)

	stdout, _, code := runCLI(t, "--config", configPath, "--json", "plan", "--platform", "linux", "--device", "/dev/fd0", "--mount-dir", "/mnt/floppy")
	require.Equal(t, exitcode.Success, code)

	var report planReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Equal(t, "linux", report.Platform)
	require.Equal(t, 3, report.Entries)
	require.Equal(t, [][]string{
		{"mkdosfs", "/dev/fd0"},
		{"mount", "-t", "vfat", "/dev/fd0", filepath.Clean("/mnt/floppy")},
		{"umount", "/dev/fd0"},
		{filepath.Join(bundleDir, "unixutil", "copy-boot.sh"), filepath.Join(bundleDir, "files", "bootsect.f12"), "/dev/fd0"},
	}, report.Commands)
}

func TestPlanWindowsOutOfRangeDrive(t *testing.T) {
	configPath := writeBundle(t)

	stdout, _, code := runCLI(t, "--config", configPath, "plan", "--platform", "windows", "--device", "K:")
	require.Equal(t, exitcode.DeviceNotFound, code)
	require.Contains(t, stdout, "format.bat K:")
	require.NotContains(t, stdout, "writeboot.bat")
	require.Contains(t, stdout, "Stops with:")
}

func TestInstallDryRunPrintsPlan(t *testing.T) {
	configPath := writeBundle(t)

	stdout, _, code := runCLI(t, "--config", configPath, "--dry-run", "install", "--platform", "solaris", "--device", "/dev/diskette")
	require.Equal(t, exitcode.Success, code)
	require.Contains(t, stdout, "fdformat -fU -t dos /dev/diskette")
	require.Contains(t, stdout, "mount -F pcfs /dev/diskette")
	require.Contains(t, stdout, "vold")
}

func TestInstallRequiresYesWithoutTerminal(t *testing.T) {
	configPath := writeBundle(t)

	_, stderr, code := runCLI(t, "--config", configPath, "install", "--platform", "linux")
	require.Equal(t, exitcode.Declined, code)
	require.Empty(t, stderr)
}

func TestInstallRejectsTUIWithJSON(t *testing.T) {
	_, _, code := runCLI(t, "--json", "install", "--tui")
	require.Equal(t, exitcode.InvalidUsage, code)
}

func TestInstallRejectsUnknownPlatformFlag(t *testing.T) {
	configPath := writeBundle(t)
	_, _, code := runCLI(t, "--config", configPath, "plan", "--platform", "amiga")
	require.Equal(t, exitcode.InvalidUsage, code)
}

func TestValidateReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vinstall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\ninstall:\n  command_timeout_seconds: -5\n"), 0o644))

	_, _, code := runCLI(t, "--config", path, "validate")
	require.Equal(t, exitcode.InvalidConfig, code)

	stdout, _, code := runCLI(t, "--config", writeBundle(t), "--json", "validate")
	require.Equal(t, exitcode.Success, code)
	require.JSONEq(t, `{"valid": true}`, stdout)
}

func TestInitWritesTemplateOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, code := runCLI(t, "--config", path, "init")
	require.Equal(t, exitcode.Success, code)
	require.Contains(t, stdout, "Wrote config")
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(payload), "metadata_prefix: \"META-INF\"")

	_, _, code = runCLI(t, "--config", path, "init")
	require.Equal(t, exitcode.RuntimeFailure, code)

	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))
	stdout, _, code = runCLI(t, "--config", path, "init", "--force")
	require.Equal(t, exitcode.Success, code)
	require.Contains(t, stdout, "Previous config kept at "+path+".vinstall.bak")
	previous, err := os.ReadFile(path + ".vinstall.bak")
	require.NoError(t, err)
	require.Equal(t, "version: 1\n", string(previous))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, code := runCLI(t, "version")
	require.Equal(t, exitcode.Success, code)
	require.Contains(t, stdout, "vinstall version dev")

	stdout, _, code = runCLI(t, "version", "--help")
	require.Equal(t, exitcode.Success, code)
	require.Contains(t, stdout, "Print the vinstall version and build metadata")
}
