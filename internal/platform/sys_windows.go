//go:build windows

package platform

func systemName() string {
	return "Windows"
}

// IsSuperuser always reports true; the check does not apply to drive-letter installs.
func IsSuperuser() bool {
	return true
}
