//go:build unix

package platform

import "golang.org/x/sys/unix"

func systemName() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Sysname[:])
}

// IsSuperuser reports whether the process runs with an effective uid of 0.
func IsSuperuser() bool {
	return unix.Geteuid() == 0
}
