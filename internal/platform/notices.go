package platform

import "fmt"

type NoticeCode string

const (
	NoticeUnknownPlatform NoticeCode = "unknown_platform"
	NoticeSolarisVold     NoticeCode = "solaris_vold"
	NoticeNotSuperuser    NoticeCode = "not_superuser"
)

// Notice is a non-fatal startup warning shown before installation begins.
type Notice struct {
	Code    NoticeCode
	Title   string
	Message string
}

func StartupNotices(p Platform, osName string, superuser bool) []Notice {
	notices := []Notice{}
	if p == Unknown {
		notices = append(notices, Notice{
			Code:    NoticeUnknownPlatform,
			Title:   "Unknown platform",
			Message: fmt.Sprintf("the installer does not recognize the operating system %q", osName),
		})
	}
	if p == Solaris {
		notices = append(notices, Notice{
			Code:    NoticeSolarisVold,
			Title:   "Solaris",
			Message: "it may be necessary to stop the /usr/sbin/vold daemon before proceeding",
		})
	}
	if p != Windows && !superuser {
		notices = append(notices, Notice{
			Code:    NoticeNotSuperuser,
			Title:   "Not superuser",
			Message: "you should run this installer as root",
		})
	}
	return notices
}
