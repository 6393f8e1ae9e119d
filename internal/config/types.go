package config

type Config struct {
	Version int     `yaml:"version"`
	Bundle  Bundle  `yaml:"bundle"`
	Install Install `yaml:"install"`
}

// Bundle locates the files shipped next to the installer. Relative paths are
// resolved against Dir.
type Bundle struct {
	Dir         string `yaml:"dir"`
	Archive     string `yaml:"archive"`
	BootSector  string `yaml:"boot_sector"`
	DOSUtilDir  string `yaml:"dos_util_dir"`
	UnixUtilDir string `yaml:"unix_util_dir"`
}

type Install struct {
	Platform              string `yaml:"platform"`
	Device                string `yaml:"device"`
	MountDir              string `yaml:"mount_dir"`
	MetadataPrefix        string `yaml:"metadata_prefix"`
	CommandTimeoutSeconds int    `yaml:"command_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		Bundle: Bundle{
			Dir:         ".",
			Archive:     "files/visopsys.zip",
			BootSector:  "files/bootsect.f12",
			DOSUtilDir:  "dosutil",
			UnixUtilDir: "unixutil",
		},
		Install: Install{
			MetadataPrefix: "META-INF",
		},
	}
}
