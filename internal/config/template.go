package config

func DefaultTemplate() string {
	return `version: 1
bundle:
  # Directory holding files/, dosutil/ and unixutil/. Relative entries below
  # are resolved against it.
  dir: "."
  archive: "files/visopsys.zip"
  boot_sector: "files/bootsect.f12"
  dos_util_dir: "dosutil"
  unix_util_dir: "unixutil"
install:
  # linux, windows, solaris or unknown. Empty detects the host.
  platform: ""
  # Empty uses /dev/fd0, A: or /dev/diskette depending on the platform.
  device: ""
  # Empty creates a temporary directory for the run.
  mount_dir: ""
  metadata_prefix: "META-INF"
  # 0 waits for each external command without a deadline.
  command_timeout_seconds: 0
`
}
