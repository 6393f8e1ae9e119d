package exitcode

const (
	Success           = 0
	RuntimeFailure    = 1
	InvalidUsage      = 2
	InvalidConfig     = 3
	MissingDependency = 4
	Declined          = 5

	// Workflow step failures.
	FormatFailed     = 10
	DeviceNotFound   = 11
	PermissionDenied = 12
	MountFailed      = 13
	ExtractionFailed = 14
	BootSectorFailed = 15

	Interrupted = 130
)
