//go:build !unix && !windows

package platform

func systemName() string {
	return ""
}

func IsSuperuser() bool {
	return false
}
